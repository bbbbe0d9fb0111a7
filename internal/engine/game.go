package engine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lorenzosim/gigibot/internal/board"
)

var (
	// ErrSearchInProgress is returned when starting a search or playing a
	// move while a search is running.
	ErrSearchInProgress = errors.New("search already in progress")

	// ErrIllegalMove is returned when a move is not legal in the current position.
	ErrIllegalMove = errors.New("illegal move")
)

// Game holds the current position of one game and at most one running search.
// All methods are safe for concurrent use.
type Game struct {
	id       uuid.UUID
	maxDepth int

	mu       sync.Mutex
	board    board.Board
	moves    []board.Move
	searcher *Searcher
	wg       sync.WaitGroup
}

// NewGame creates a game starting from b. maxDepth caps every search
// (zero means no cap besides MaxPly).
func NewGame(b board.Board, maxDepth int) *Game {
	return &Game{
		id:       uuid.New(),
		maxDepth: maxDepth,
		board:    b,
	}
}

// ID returns the game's unique identifier. Callers compare it to drop
// results of searches started by a game that is no longer current.
func (g *Game) ID() uuid.UUID {
	return g.id
}

// Board returns the current position.
func (g *Game) Board() board.Board {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board
}

// Moves returns the moves played since the game was created.
func (g *Game) Moves() []board.Move {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]board.Move, len(g.moves))
	copy(out, g.moves)
	return out
}

// Searching returns true while a search is running.
func (g *Game) Searching() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.searcher != nil
}

// FindBestMove starts searching the current position on its own goroutine
// and returns immediately. The callback is called exactly once with the
// best line, when the search completes or is stopped. If progress is not
// nil it is called after each completed depth. Both run on the search
// goroutine.
//
// If the limits yield a time budget, the search is stopped when it runs out.
// Otherwise it runs until its depth limit, a forced mate, or StopSearch.
func (g *Game) FindBestMove(limits SearchLimits, progress func(SearchInfo), callback func(PrincipalVariation)) error {
	g.mu.Lock()
	if g.searcher != nil {
		g.mu.Unlock()
		return ErrSearchInProgress
	}

	depth := g.maxDepth
	if limits.Depth > 0 && (depth <= 0 || limits.Depth < depth) {
		depth = limits.Depth
	}
	s := NewSearcher(depth)
	s.OnDepth = progress
	g.searcher = s
	b := g.board
	g.wg.Add(1)
	g.mu.Unlock()

	var completed atomic.Bool
	var timer *time.Timer
	if budget, ok := limits.MaxMoveTime(); ok {
		timer = time.AfterFunc(budget, func() {
			// Firing right after completion is harmless; Stop is then a no-op.
			if !completed.Load() {
				s.Stop()
			}
		})
	}

	log.Debug().
		Str("game", g.id.String()).
		Str("fen", b.FEN()).
		Int("max-depth", s.MaxDepth()).
		Msg("search-started")

	go func() {
		defer g.wg.Done()

		pv := s.Search(b)
		completed.Store(true)
		if timer != nil {
			timer.Stop()
		}

		g.mu.Lock()
		g.searcher = nil
		g.mu.Unlock()

		log.Debug().
			Str("game", g.id.String()).
			Str("bestmove", pv.FirstMove().String()).
			Int("score", pv.Score).
			Uint64("nodes", s.Nodes()).
			Bool("stopped", s.Stopped()).
			Msg("search-finished")

		callback(pv)
	}()

	return nil
}

// StopSearch stops the running search, if any. The callback still fires
// with the last completed depth.
func (g *Game) StopSearch() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.searcher != nil {
		g.searcher.Stop()
	}
}

// Wait blocks until the running search, if any, has delivered its result.
func (g *Game) Wait() {
	g.wg.Wait()
}

// Move plays m on the current position.
func (g *Game) Move(m board.Move) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.searcher != nil {
		return ErrSearchInProgress
	}
	if !board.IsLegal(g.board, m) {
		return fmt.Errorf("%w: %s in %s", ErrIllegalMove, m, g.board.FEN())
	}
	g.board = board.Apply(g.board, m)
	g.moves = append(g.moves, m)
	return nil
}
