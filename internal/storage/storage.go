package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned when no analysis is archived for a position.
var ErrNotFound = errors.New("analysis not found")

// Storage key prefixes
const (
	prefixLatest  = "latest/"
	prefixHistory = "history/"
	prefixRecent  = "recent/"
	keySequence   = "seq"
)

// Record is one completed analysis of a position.
type Record struct {
	FEN       string        `json:"fen"`
	Depth     int           `json:"depth"`
	Score     int           `json:"score"`
	Mate      bool          `json:"mate"`
	BestMove  string        `json:"best_move"`
	PV        []string      `json:"pv"`
	Nodes     uint64        `json:"nodes"`
	Elapsed   time.Duration `json:"elapsed"`
	CreatedAt time.Time     `json:"created_at"`
}

// Archive wraps BadgerDB for persistent storage of analyses.
// It is safe for concurrent use.
type Archive struct {
	db  *badger.DB
	seq *badger.Sequence
}

// Open opens the archive stored in dir. An empty dir keeps the archive in
// memory only.
func Open(dir string) (*Archive, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts = opts.WithLogger(badgerLogger{log.With().Str("component", "badger").Logger()})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open archive %q: %w", dir, err)
	}

	seq, err := db.GetSequence([]byte(keySequence), 100)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open archive sequence: %w", err)
	}

	return &Archive{db: db, seq: seq}, nil
}

// Close closes the database
func (a *Archive) Close() error {
	if a.db == nil {
		return nil
	}
	seqErr := a.seq.Release()
	return errors.Join(seqErr, a.db.Close())
}

// Save archives r as the latest analysis of its position. CreatedAt is
// set to now when zero.
func (a *Archive) Save(r Record) error {
	if r.FEN == "" {
		return errors.New("save analysis: empty FEN")
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	n, err := a.seq.Next()
	if err != nil {
		return err
	}
	id := fmt.Sprintf("%016x", n)

	return a.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(prefixLatest+r.FEN), data); err != nil {
			return err
		}
		if err := txn.Set([]byte(prefixHistory+r.FEN+"/"+id), data); err != nil {
			return err
		}
		return txn.Set([]byte(prefixRecent+id), data)
	})
}

// Lookup returns the latest analysis of the position, or ErrNotFound.
func (a *Archive) Lookup(fen string) (Record, error) {
	var r Record

	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefixLatest + fen))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &r)
		})
	})

	return r, err
}

// History returns every analysis of the position, oldest first.
func (a *Archive) History(fen string) ([]Record, error) {
	return a.scan(prefixHistory+fen+"/", false, 0)
}

// Recent returns up to limit analyses of any position, newest first.
// A limit of zero or less returns all of them.
func (a *Archive) Recent(limit int) ([]Record, error) {
	return a.scan(prefixRecent, true, limit)
}

func (a *Archive) scan(prefix string, reverse bool, limit int) ([]Record, error) {
	var records []Record

	err := a.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.Reverse = reverse
		it := txn.NewIterator(opts)
		defer it.Close()

		start := []byte(prefix)
		if reverse {
			start = append(start, 0xff)
		}
		for it.Seek(start); it.ValidForPrefix([]byte(prefix)); it.Next() {
			var r Record
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			})
			if err != nil {
				return err
			}
			records = append(records, r)
			if limit > 0 && len(records) == limit {
				break
			}
		}
		return nil
	})

	return records, err
}

// badgerLogger routes badger's internal logging to zerolog.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Trace().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
