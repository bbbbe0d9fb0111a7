package server

import (
	"time"

	"github.com/lorenzosim/gigibot/internal/board"
	"github.com/lorenzosim/gigibot/internal/engine"
)

// GameState is the JSON view of a game.
type GameState struct {
	ID         string   `json:"id"`
	FEN        string   `json:"fen"`
	SideToMove string   `json:"side_to_move"`
	Status     string   `json:"status"`
	InCheck    bool     `json:"in_check"`
	Moves      []string `json:"moves"`
	SAN        []string `json:"san"`
	Searching  bool     `json:"searching"`
}

func newGameState(g *engine.Game, start board.Board) GameState {
	b := g.Board()
	moves := g.Moves()
	return GameState{
		ID:         g.ID().String(),
		FEN:        b.FEN(),
		SideToMove: b.SideToMove().String(),
		Status:     board.Status(b).String(),
		InCheck:    b.InCheck(),
		Moves:      moveStrings(moves),
		SAN:        board.MovesToSAN(start, moves),
		Searching:  g.Searching(),
	}
}

// SearchResult is the JSON view of a completed search depth.
type SearchResult struct {
	FEN       string   `json:"fen"`
	Depth     int      `json:"depth"`
	Score     int      `json:"score"`
	Mate      bool     `json:"mate"`
	MateIn    int      `json:"mate_in,omitempty"`
	BestMove  string   `json:"best_move"`
	PV        []string `json:"pv"`
	PVSAN     []string `json:"pv_san"`
	Nodes     uint64   `json:"nodes"`
	ElapsedMS int64    `json:"elapsed_ms"`

	elapsed time.Duration
}

func newSearchResult(b board.Board, info engine.SearchInfo) *SearchResult {
	r := &SearchResult{
		FEN:       b.FEN(),
		Depth:     info.Depth,
		Score:     info.Score,
		Mate:      info.PV.IsMate(),
		BestMove:  info.PV.FirstMove().String(),
		PV:        moveStrings(info.PV.Moves),
		PVSAN:     board.MovesToSAN(b, info.PV.Moves),
		Nodes:     info.Nodes,
		ElapsedMS: info.Time.Milliseconds(),
		elapsed:   info.Time,
	}
	if r.Mate {
		r.MateIn = info.PV.MovesToMate()
		if info.Score < 0 {
			r.MateIn = -r.MateIn
		}
	}
	return r
}

// SearchRequest holds the limits of a search. Times are in milliseconds.
// A clock that is absent means no clock; a present one may be zero or
// negative once it has run out.
type SearchRequest struct {
	Depth     int    `json:"depth"`
	MoveTime  int64  `json:"movetime"`
	WTime     *int64 `json:"wtime,omitempty"`
	BTime     *int64 `json:"btime,omitempty"`
	WInc      int64  `json:"winc"`
	BInc      int64  `json:"binc"`
	MovesToGo int    `json:"movestogo"`
	Infinite  bool   `json:"infinite"`
}

// Limits converts the request for the side to move.
func (r SearchRequest) Limits(us board.Color) engine.SearchLimits {
	ms := func(v int64) time.Duration { return time.Duration(v) * time.Millisecond }
	limits := engine.SearchLimits{
		Depth:     r.Depth,
		MoveTime:  ms(r.MoveTime),
		MovesToGo: r.MovesToGo,
		Infinite:  r.Infinite,
	}
	clock, inc := r.WTime, r.WInc
	if us == board.Black {
		clock, inc = r.BTime, r.BInc
	}
	limits.Increment = ms(inc)
	if clock != nil {
		limits.Clock, limits.TimeLeft = true, ms(*clock)
	}
	return limits
}

func moveStrings(moves []board.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}
