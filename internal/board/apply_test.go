package board

import (
	"errors"
	"testing"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move string
		want string
	}{
		{"simple pawn move", StartFEN, "e2e3",
			"rnbqkbnr/pppppppp/8/8/8/4P3/PPPP1PPP/RNBQKBNR b KQkq - 0 1"},
		{"simple piece move", StartFEN, "g1f3",
			"rnbqkbnr/pppppppp/8/8/8/5N2/PPPPPPPP/RNBQKB1R b KQkq - 1 1"},
		{"capture", "rnbqkbnr/ppp1pppp/8/3p4/6P1/8/PPPPPP1P/RNBQKBNR b KQkq - 0 1", "c8g4",
			"rn1qkbnr/ppp1pppp/8/3p4/6b1/8/PPPPPP1P/RNBQKBNR w KQkq - 0 2"},
		{"en passant capture", "rnbqkbnr/ppppp1pp/8/8/5pP1/2N4P/PPPPPP2/R1BQKBNR b KQkq g3 0 3", "f4g3",
			"rnbqkbnr/ppppp1pp/8/8/8/2N3pP/PPPPPP2/R1BQKBNR w KQkq - 0 4"},
		{"white castles king side", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1",
			"r3k2r/8/8/8/8/8/8/R4RK1 b kq - 1 1"},
		{"white castles queen side", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1c1",
			"r3k2r/8/8/8/8/8/8/2KR3R b kq - 1 1"},
		{"black castles king side", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8g8",
			"r4rk1/8/8/8/8/8/8/R3K2R w KQ - 1 2"},
		{"black castles queen side", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8c8",
			"2kr3r/8/8/8/8/8/8/R3K2R w KQ - 1 2"},
		{"white king move drops rights", "r3k2r/8/8/8/8/8/2n2n2/R3K2R w KQkq - 0 1", "e1e2",
			"r3k2r/8/8/8/8/8/2n1Kn2/R6R b kq - 1 1"},
		{"white h rook move", "r3k2r/8/8/8/8/8/2n2n2/R3K2R w KQkq - 0 1", "h1h2",
			"r3k2r/8/8/8/8/8/2n2n1R/R3K3 b Qkq - 1 1"},
		{"white a rook move", "r3k2r/8/8/8/8/8/2n2n2/R3K2R w KQkq - 0 1", "a1a2",
			"r3k2r/8/8/8/8/8/R1n2n2/4K2R b Kkq - 1 1"},
		{"white a rook captured", "r3k2r/8/8/8/8/8/2n2n2/R3K2R b KQkq - 0 1", "c2a1",
			"r3k2r/8/8/8/8/8/5n2/n3K2R w Kkq - 0 2"},
		{"white h rook captured", "r3k2r/8/8/8/8/8/2n2n2/R3K2R b KQkq - 0 1", "f2h1",
			"r3k2r/8/8/8/8/8/2n5/R3K2n w Qkq - 0 2"},
		{"black king move drops rights", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8f7",
			"r6r/5k2/8/8/8/8/8/R3K2R w KQ - 1 2"},
		{"black a rook move", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "a8a7",
			"4k2r/r7/8/8/8/8/8/R3K2R w KQk - 1 2"},
		{"black h rook move", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "h8h5",
			"r3k3/8/8/7r/8/8/8/R3K2R w KQq - 1 2"},
		{"black a rook captured", "r3k2r/8/8/8/3BB3/8/5n2/n3K2R w KQkq - 0 1", "e4a8",
			"B3k2r/8/8/8/3B4/8/5n2/n3K2R b KQk - 0 1"},
		{"black h rook captured", "r3k2r/8/8/8/3BB3/8/5n2/n3K2R w KQkq - 0 1", "d4h8",
			"r3k2B/8/8/8/4B3/8/5n2/n3K2R b KQq - 0 1"},
		{"white promotion", "8/1P3k2/8/8/8/8/7p/4K3 w - - 0 1", "b7b8q",
			"1Q6/5k2/8/8/8/8/7p/4K3 b - - 0 1"},
		{"black promotion", "1Q6/5k2/8/8/8/8/7p/4K3 b - - 0 1", "h2h1r",
			"1Q6/5k2/8/8/8/8/8/4K2r w - - 0 2"},
		{"white double step", StartFEN, "e2e4",
			"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"},
		{"black double step", "rnbqkbnr/1ppppppp/p7/P7/8/8/1PPPPPPP/RNBQKBNR b KQkq - 0 2", "b7b5",
			"rnbqkbnr/2pppppp/p7/Pp6/8/8/1PPPPPPP/RNBQKBNR w KQkq b6 0 3"},
		{"white en passant", "rnbqkbnr/2pppppp/p7/Pp6/8/8/1PPPPPPP/RNBQKBNR w KQkq b6 0 3", "a5b6",
			"rnbqkbnr/2pppppp/pP6/8/8/8/1PPPPPPP/RNBQKBNR b KQkq - 0 3"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			m, err := ParseMove(tc.move)
			if err != nil {
				t.Fatalf("ParseMove: %v", err)
			}
			next := Apply(b, m)
			if got := next.FEN(); got != tc.want {
				t.Errorf("Apply(%s)\n got: %s\nwant: %s", tc.move, got, tc.want)
			}
			if b.FEN() != tc.fen {
				t.Errorf("input board changed to %s", b.FEN())
			}
		})
	}
}

func TestApplyAll(t *testing.T) {
	moves := []Move{NewMove(E2, E4), NewMove(E7, E5), NewMove(G1, F3)}
	b, err := ApplyAll(NewBoard(), moves)
	if err != nil {
		t.Fatalf("ApplyAll: %v", err)
	}
	want := "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2"
	if b.FEN() != want {
		t.Errorf("FEN() = %s, want %s", b.FEN(), want)
	}

	_, err = ApplyAll(NewBoard(), []Move{NewMove(E2, E4), NewMove(E2, E4)})
	if !errors.Is(err, ErrInvalidMove) {
		t.Errorf("ApplyAll with illegal move error = %v, want ErrInvalidMove", err)
	}
	var ime *IllegalMoveError
	if !errors.As(err, &ime) || ime.Move != NewMove(E2, E4) {
		t.Errorf("error = %#v, want IllegalMoveError for e2e4", err)
	}
}
