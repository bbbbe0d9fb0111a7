package server

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lorenzosim/gigibot/internal/board"
	"github.com/lorenzosim/gigibot/internal/engine"
	"github.com/lorenzosim/gigibot/internal/storage"
)

// ErrGameNotFound is returned for an unknown or deleted game id.
var ErrGameNotFound = errors.New("game not found")

// EventType names the kind of message pushed to game subscribers.
type EventType string

const (
	EventInfo     EventType = "info"
	EventBestMove EventType = "bestmove"
	EventClosed   EventType = "closed"
)

// Event is pushed to the subscribers of a game.
type Event struct {
	Type    EventType     `json:"type"`
	GameID  string        `json:"game_id"`
	Payload *SearchResult `json:"payload,omitempty"`
}

// subscriberBuffer is the number of events a slow subscriber may lag behind
// before events are dropped for it.
const subscriberBuffer = 64

// session is one game served over HTTP and the subscribers to its searches.
type session struct {
	game  *engine.Game
	start board.Board

	mu     sync.Mutex
	result *SearchResult
	subs   map[chan Event]struct{}
	closed bool
}

func (s *session) publish(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
			log.Warn().Str("game", ev.GameID).Str("event", string(ev.Type)).Msg("subscriber-lagging")
		}
	}
}

func (s *session) setResult(r *SearchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = r
}

func (s *session) lastResult() *SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// close stops the search and closes every subscriber channel.
func (s *session) close() {
	s.game.StopSearch()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for ch := range s.subs {
		select {
		case ch <- Event{Type: EventClosed, GameID: s.game.ID().String()}:
		default:
		}
		close(ch)
	}
	s.subs = nil
}

// GameManager holds the games created through the API.
type GameManager struct {
	maxDepth int
	archive  *storage.Archive

	mu    sync.RWMutex
	games map[uuid.UUID]*session
}

// NewGameManager creates an empty manager. archive may be nil.
func NewGameManager(maxDepth int, archive *storage.Archive) *GameManager {
	return &GameManager{
		maxDepth: maxDepth,
		archive:  archive,
		games:    make(map[uuid.UUID]*session),
	}
}

// Create starts a new game from b.
func (gm *GameManager) Create(b board.Board) *engine.Game {
	g := engine.NewGame(b, gm.maxDepth)

	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.games[g.ID()] = &session{game: g, start: b, subs: make(map[chan Event]struct{})}
	return g
}

func (gm *GameManager) session(id string) (*session, error) {
	gameID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrGameNotFound
	}

	gm.mu.RLock()
	defer gm.mu.RUnlock()
	s, ok := gm.games[gameID]
	if !ok {
		return nil, ErrGameNotFound
	}
	return s, nil
}

// Get returns the game with the given id.
func (gm *GameManager) Get(id string) (*engine.Game, error) {
	s, err := gm.session(id)
	if err != nil {
		return nil, err
	}
	return s.game, nil
}

// Delete removes a game, stopping its search. The result of that search is
// no longer published.
func (gm *GameManager) Delete(id string) error {
	s, err := gm.session(id)
	if err != nil {
		return err
	}

	gm.mu.Lock()
	delete(gm.games, s.game.ID())
	gm.mu.Unlock()

	s.close()
	return nil
}

// Close stops every running search and waits for them.
func (gm *GameManager) Close() {
	gm.mu.Lock()
	sessions := make([]*session, 0, len(gm.games))
	for id, s := range gm.games {
		sessions = append(sessions, s)
		delete(gm.games, id)
	}
	gm.mu.Unlock()

	for _, s := range sessions {
		s.close()
		s.game.Wait()
	}
}

// Subscribe returns a channel receiving the search events of a game and a
// function to cancel the subscription. The channel is closed when the game
// is deleted.
func (gm *GameManager) Subscribe(id string) (<-chan Event, func(), error) {
	s, err := gm.session(id)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan Event, subscriberBuffer)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, nil, ErrGameNotFound
	}
	s.subs[ch] = struct{}{}

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
	}
	return ch, cancel, nil
}

// StartSearch starts a search on the game. Every completed depth and the
// final result are published to subscribers; the result is kept as the
// game's last result and archived.
func (gm *GameManager) StartSearch(id string, limits engine.SearchLimits) error {
	s, err := gm.session(id)
	if err != nil {
		return err
	}

	g := s.game
	b := g.Board()
	gameID := g.ID().String()

	// Both callbacks run on the search goroutine, in order.
	var last engine.SearchInfo
	progress := func(info engine.SearchInfo) {
		last = info
		s.publish(Event{Type: EventInfo, GameID: gameID, Payload: newSearchResult(b, info)})
	}

	return g.FindBestMove(limits, progress, func(engine.PrincipalVariation) {
		result := newSearchResult(b, last)
		s.setResult(result)
		gm.save(result)
		s.publish(Event{Type: EventBestMove, GameID: gameID, Payload: result})
	})
}

func (gm *GameManager) save(r *SearchResult) {
	if gm.archive == nil || r.Depth == 0 {
		return
	}
	err := gm.archive.Save(storage.Record{
		FEN:      r.FEN,
		Depth:    r.Depth,
		Score:    r.Score,
		Mate:     r.Mate,
		BestMove: r.BestMove,
		PV:       r.PV,
		Nodes:    r.Nodes,
		Elapsed:  r.elapsed,
	})
	if err != nil {
		log.Error().Err(err).Str("fen", r.FEN).Msg("archive-save-failed")
	}
}
