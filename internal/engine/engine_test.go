package engine

import (
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/lorenzosim/gigibot/internal/board"
)

func TestSearchBestMove(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		depth    int
		want     string // expected best move, if set
		avoid    string // move that must not be chosen, if set
		minScore int
		maxScore int
	}{
		{name: "absolute pin", fen: "7k/8/8/3q4/8/2r5/3P4/3K4 w - - 0 1", depth: 3, avoid: "d2c3"},
		{name: "mate in one", fen: "8/8/8/6q1/8/3k4/8/3K4 b - - 0 1", depth: 3, want: "g5d2", minScore: MateScore},
		{name: "being mated in one", fen: "5r2/8/8/6q1/8/3k4/8/4K3 w - - 0 1", depth: 3, want: "e1d1", maxScore: -MateScore},
		{name: "mate in two", fen: "4r2k/6pp/7N/1r1Q4/8/8/8/6K1 w - - 0 1", depth: 4, want: "d5g8", minScore: MateScore},
		{name: "avoid stalemate", fen: "7k/7r/8/8/8/q4N2/8/6K1 b - - 0 1", depth: 3, avoid: "a3f3"},
		{name: "avoid mate", fen: "7k/8/7r/7q/8/8/6PP/2r3RK w - - 0 1", depth: 3, want: "h2h3"},
		{name: "quiescence avoids losing capture", fen: "3r1k2/8/8/8/1p6/r7/8/2Q1K3 w - - 0 1", depth: 1, avoid: "c1a3"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSearcher(tc.depth)
			pv := s.Search(mustParse(t, tc.fen))
			move := pv.FirstMove().String()
			t.Logf("pv: %s (score %d, nodes %d)", pv, pv.Score, s.Nodes())

			if pv.FirstMove() == board.NoMove {
				t.Fatal("Search returned NoMove")
			}
			if tc.want != "" && move != tc.want {
				t.Errorf("best move = %s, want %s", move, tc.want)
			}
			if tc.avoid != "" && move == tc.avoid {
				t.Errorf("best move = %s, should be avoided", move)
			}
			if tc.minScore != 0 && pv.Score < tc.minScore {
				t.Errorf("score = %d, want >= %d", pv.Score, tc.minScore)
			}
			if tc.maxScore != 0 && pv.Score > tc.maxScore {
				t.Errorf("score = %d, want <= %d", pv.Score, tc.maxScore)
			}
		})
	}
}

func TestMateDistance(t *testing.T) {
	mateIn1 := NewSearcher(3).Search(mustParse(t, "8/8/8/6q1/8/3k4/8/3K4 b - - 0 1"))
	mateIn2 := NewSearcher(4).Search(mustParse(t, "4r2k/6pp/7N/1r1Q4/8/8/8/6K1 w - - 0 1"))

	if !mateIn1.IsMate() || !mateIn2.IsMate() {
		t.Fatalf("IsMate() = %v, %v", mateIn1.IsMate(), mateIn2.IsMate())
	}
	if mateIn1.MovesToMate() != 1 || mateIn2.MovesToMate() != 2 {
		t.Errorf("MovesToMate() = %d, %d, want 1, 2", mateIn1.MovesToMate(), mateIn2.MovesToMate())
	}
	if mateIn2.Score >= mateIn1.Score {
		t.Errorf("longer mate scores %d, shorter %d", mateIn2.Score, mateIn1.Score)
	}
	// The mated side is found at ply 1 and ply 3.
	if mateIn1.Score != MateScore+MaxPly-1 || mateIn2.Score != MateScore+MaxPly-3 {
		t.Errorf("mate scores = %d, %d, want %d, %d", mateIn1.Score, mateIn2.Score, MateScore+MaxPly-1, MateScore+MaxPly-3)
	}
	if mateIn2.Score <= 10000 {
		t.Errorf("mate score %d not above 10000", mateIn2.Score)
	}
}

func TestSearchCheckmatedAndStalemated(t *testing.T) {
	mated := NewSearcher(3).Search(mustParse(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1"))
	if mated.FirstMove() != board.NoMove || mated.Score > -MateScore {
		t.Errorf("checkmated: pv %q score %d", mated, mated.Score)
	}

	stalemated := NewSearcher(3).Search(mustParse(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"))
	if stalemated.FirstMove() != board.NoMove || stalemated.Score != 0 {
		t.Errorf("stalemated: pv %q score %d", stalemated, stalemated.Score)
	}
}

func TestSearchReportsEachDepth(t *testing.T) {
	s := NewSearcher(3)
	var depths []int
	s.OnDepth = func(info SearchInfo) {
		depths = append(depths, info.Depth)
		if info.PV.Depth() != info.Depth {
			t.Errorf("depth %d reported a %d-ply line", info.Depth, info.PV.Depth())
		}
	}
	s.Search(board.NewBoard())
	if !slices.Equal(depths, []int{1, 2, 3}) {
		t.Errorf("depths = %v, want [1 2 3]", depths)
	}
	if s.Nodes() == 0 {
		t.Error("Nodes() = 0")
	}
}

func TestSearchStopReturnsLastCompletedDepth(t *testing.T) {
	b := mustParse(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	s := NewSearcher(0)

	var mu sync.Mutex
	var last SearchInfo
	s.OnDepth = func(info SearchInfo) {
		mu.Lock()
		last = info
		mu.Unlock()
	}

	done := make(chan PrincipalVariation)
	go func() { done <- s.Search(b) }()

	time.Sleep(300 * time.Millisecond)
	s.Stop()

	var pv PrincipalVariation
	select {
	case pv = <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("search did not stop")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(pv.Moves) == 0 {
		t.Fatal("stopped search returned an empty line")
	}
	if pv.Score != last.Score || !slices.Equal(pv.Moves, last.PV.Moves) {
		t.Errorf("result %q (%d) differs from last completed depth %d: %q (%d)",
			pv, pv.Score, last.Depth, last.PV, last.Score)
	}
	if !s.Stopped() {
		t.Error("Stopped() = false")
	}
}

func TestSearchStoppedBeforeStart(t *testing.T) {
	s := NewSearcher(0)
	s.Stop()
	pv := s.Search(board.NewBoard())
	if pv.Depth() != 1 || pv.FirstMove() == board.NoMove {
		t.Errorf("pv = %q, want a completed depth-1 line", pv)
	}
}

func TestPrincipalVariation(t *testing.T) {
	pv := PrincipalVariation{
		Score: MateScore + MaxPly - 3,
		Moves: []board.Move{board.NewMove(board.D5, board.G8), board.NewMove(board.E8, board.G8), board.NewMove(board.H6, board.F7)},
	}
	if !pv.IsMate() || pv.MovesToMate() != 2 || pv.Depth() != 3 {
		t.Errorf("IsMate %v MovesToMate %d Depth %d", pv.IsMate(), pv.MovesToMate(), pv.Depth())
	}
	if pv.String() != "d5g8 e8g8 h6f7" {
		t.Errorf("String() = %q", pv.String())
	}
	if (PrincipalVariation{Score: -MateScore}).IsMate() != true {
		t.Error("losing mate score not recognised")
	}
	if (PrincipalVariation{Score: MateScore - 1}).IsMate() {
		t.Error("score below threshold recognised as mate")
	}
	if (PrincipalVariation{}).FirstMove() != board.NoMove {
		t.Error("empty line has a first move")
	}
}
