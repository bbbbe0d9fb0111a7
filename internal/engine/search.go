package engine

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lorenzosim/gigibot/internal/board"
)

// Search constants
const (
	// Infinity bounds the root window.
	Infinity = 100000

	// MateScore is the lower bound of mate scores. A mate found at ply p
	// scores MateScore+MaxPly-p, so reported mate scores are always above
	// MateScore (above 10000) and a shorter mate scores higher.
	MateScore = 10000

	// MaxPly is the deepest ply a search reaches. Mate scores are offset by
	// the ply they are found at, so a mate at ply p scores MateScore+MaxPly-p.
	MaxPly = 1000

	// quiescenceDepth is the capture-only search budget below the horizon.
	quiescenceDepth = 2
)

// PrincipalVariation is the best line found by a search and its score,
// relative to the side to move at the root.
type PrincipalVariation struct {
	Score int
	Moves []board.Move
}

// IsMate returns true if the score is a forced mate, for either side.
func (pv PrincipalVariation) IsMate() bool {
	return pv.Score >= MateScore || pv.Score <= -MateScore
}

// FirstMove returns the move to play, or board.NoMove for an empty line.
func (pv PrincipalVariation) FirstMove() board.Move {
	if len(pv.Moves) == 0 {
		return board.NoMove
	}
	return pv.Moves[0]
}

// Depth returns the number of plies in the line.
func (pv PrincipalVariation) Depth() int {
	return len(pv.Moves)
}

// MovesToMate returns the number of full moves in the line, rounded up.
// Only meaningful when IsMate is true.
func (pv PrincipalVariation) MovesToMate() int {
	return (len(pv.Moves) + 1) / 2
}

// String returns the line in long algebraic notation, space separated.
func (pv PrincipalVariation) String() string {
	parts := make([]string, len(pv.Moves))
	for i, m := range pv.Moves {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}

// SearchInfo contains information about a completed search depth.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	PV    PrincipalVariation
}

// Searcher runs one iterative-deepening negamax search.
// A Searcher is used for a single Search call; Stop may be called from any
// goroutine while it runs.
type Searcher struct {
	maxDepth int
	stopFlag atomic.Bool
	nodes    atomic.Uint64

	// interruptible is false while the first depth runs, so that a stopped
	// search always has a completed line to return.
	interruptible bool

	// OnDepth, if set, is called after each completed depth.
	OnDepth func(SearchInfo)
}

// NewSearcher creates a searcher that deepens up to maxDepth plies.
// A maxDepth of zero or less means no limit other than MaxPly.
func NewSearcher(maxDepth int) *Searcher {
	if maxDepth <= 0 || maxDepth > MaxPly {
		maxDepth = MaxPly
	}
	return &Searcher{maxDepth: maxDepth}
}

// Stop signals the search to stop. The depth in progress is discarded.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// Stopped returns true if Stop has been called.
func (s *Searcher) Stopped() bool {
	return s.stopFlag.Load()
}

// Nodes returns the number of nodes searched so far.
func (s *Searcher) Nodes() uint64 {
	return s.nodes.Load()
}

// MaxDepth returns the depth limit.
func (s *Searcher) MaxDepth() int {
	return s.maxDepth
}

func (s *Searcher) shouldStop() bool {
	return s.interruptible && s.stopFlag.Load()
}

// Search finds the best line for the side to move on b. It deepens one ply
// at a time until the depth limit, a forced mate, or Stop. The result is
// always that of the last fully completed depth; depth 1 is never
// interrupted, so the result is never empty unless b has no legal move.
func (s *Searcher) Search(b board.Board) PrincipalVariation {
	start := time.Now()
	var best PrincipalVariation

	for depth := 1; depth <= s.maxDepth; depth++ {
		if depth > 1 && s.stopFlag.Load() {
			break
		}
		s.interruptible = depth > 1

		pv := s.negamax(b, depth, 0, -Infinity, Infinity)
		if s.shouldStop() {
			// Partial result, discard
			log.Debug().Int("depth", depth).Msg("search-interrupted")
			break
		}
		best = pv

		info := SearchInfo{
			Depth: depth,
			Score: pv.Score,
			Nodes: s.Nodes(),
			Time:  time.Since(start),
			PV:    pv,
		}
		log.Debug().
			Int("depth", depth).
			Int("score", pv.Score).
			Uint64("nodes", info.Nodes).
			Dur("elapsed", info.Time).
			Str("pv", pv.String()).
			Msg("depth-completed")
		if s.OnDepth != nil {
			s.OnDepth(info)
		}

		// No point searching deeper once a mate is found or nothing can move.
		if pv.IsMate() || len(pv.Moves) == 0 {
			break
		}
	}

	return best
}

// negamax searches depth plies below b with the alpha-beta window and
// returns the best line, scored for the side to move on b.
func (s *Searcher) negamax(b board.Board, depth, ply, alpha, beta int) PrincipalVariation {
	s.nodes.Add(1)

	if depth == 0 {
		return PrincipalVariation{Score: s.quiesce(b, alpha, beta, quiescenceDepth)}
	}

	us := b.SideToMove()
	var best PrincipalVariation
	found := false

	for _, m := range board.GenerateMoves(b, false) {
		if s.shouldStop() {
			break
		}
		next := board.Apply(b, m)
		if board.IsInCheck(next, us) {
			continue
		}

		child := s.negamax(next, depth-1, ply+1, -beta, -alpha)
		score := -child.Score
		if !found || score > best.Score {
			found = true
			moves := make([]board.Move, 0, len(child.Moves)+1)
			moves = append(moves, m)
			best = PrincipalVariation{Score: score, Moves: append(moves, child.Moves...)}
		}
		alpha = max(alpha, score)
		if alpha >= beta {
			break
		}
	}

	if !found {
		// No legal move: checkmate if in check, stalemate otherwise.
		if board.IsInCheck(b, us) {
			return PrincipalVariation{Score: -(MateScore + MaxPly - ply)}
		}
		return PrincipalVariation{Score: 0}
	}

	return best
}

// quiesce extends the search with captures only, up to budget plies, so
// the horizon never falls in the middle of an exchange.
func (s *Searcher) quiesce(b board.Board, alpha, beta, budget int) int {
	standPat := Evaluate(b)
	if budget == 0 || standPat >= beta {
		return standPat
	}
	alpha = max(alpha, standPat)

	us := b.SideToMove()
	for _, m := range board.GenerateMoves(b, true) {
		if s.shouldStop() {
			break
		}
		next := board.Apply(b, m)
		if board.IsInCheck(next, us) {
			continue
		}
		s.nodes.Add(1)

		score := -s.quiesce(next, -beta, -alpha, budget-1)
		if score >= beta {
			return beta
		}
		alpha = max(alpha, score)
	}
	return alpha
}
