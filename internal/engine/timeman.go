package engine

import (
	"time"
)

// estimatedMovesToGo is the guess for the number of moves left in the game
// when the time control does not say.
const estimatedMovesToGo = 40

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth     int           // Maximum depth (0 = engine default)
	MoveTime  time.Duration // Time for this move (0 = no limit)
	Clock     bool          // TimeLeft is set; it may be zero or negative once the clock runs out
	TimeLeft  time.Duration // Clock of the side to move
	Increment time.Duration // Increment per move
	MovesToGo int           // Moves until next time control (0 = unknown)
	Infinite  bool          // Search until stopped
}

// MaxMoveTime returns the time budget for the move and whether there is one.
// An explicit move time wins. Without a clock the search is unbounded
// (infinite analysis) and has to be stopped by the caller. Otherwise the
// remaining time plus the increments still to come are split evenly over
// the moves left. A clock that has run out yields a zero budget, which
// stops the search after its first depth.
func (l SearchLimits) MaxMoveTime() (time.Duration, bool) {
	if l.MoveTime > 0 {
		return l.MoveTime, true
	}
	if l.Infinite || !l.Clock {
		return 0, false
	}

	mtg := l.MovesToGo
	if mtg <= 0 {
		mtg = estimatedMovesToGo
	}
	budget := (l.Increment*time.Duration(mtg) + l.TimeLeft) / time.Duration(mtg)
	return max(budget, 0), true
}
