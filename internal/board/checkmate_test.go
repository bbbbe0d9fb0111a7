package board

import (
	"slices"
	"testing"
)

func TestCheckmate(t *testing.T) {
	// Back rank mate: white rook a8, black king h8 boxed in by its own pawns.
	b, err := ParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	t.Log("Checkmate position:")
	t.Log(b)

	t.Log("InCheck:", b.InCheck())
	t.Log("Black legal moves:", LegalMoves(b))
	t.Log("Pseudo-legal moves:", GenerateMoves(b, false))

	if !b.InCheck() {
		t.Error("Expected black to be in check")
	}
	if got := Status(b); got != Checkmate {
		t.Errorf("Status() = %v, want checkmate", got)
	}
}

func TestNotCheckmate(t *testing.T) {
	// King can capture the checking rook or step aside
	b, err := ParseFEN("6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	moves := LegalMoves(b)
	t.Log("Black legal moves:", moves)

	if got := Status(b); got != Ongoing {
		t.Errorf("Status() = %v, want ongoing", got)
	}
	if got := moveStrings(moves); !slices.Equal(got, []string{"h8g8", "h8h7"}) {
		t.Errorf("LegalMoves() = %v, want [h8g8 h8h7]", got)
	}
}

func TestStalemate(t *testing.T) {
	b, err := ParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	if b.InCheck() {
		t.Error("Stalemated king should not be in check")
	}
	if moves := LegalMoves(b); len(moves) != 0 {
		t.Errorf("LegalMoves() = %v, want none", moves)
	}
	if got := Status(b); got != Stalemate {
		t.Errorf("Status() = %v, want stalemate", got)
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want GameStatus
	}{
		{"start", StartFEN, Ongoing},
		{"fool's mate", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", Checkmate},
		{"smothered mate", "6rk/5Npp/8/8/8/8/8/6K1 b - - 0 1", Checkmate},
		{"only king, blocked", "k7/2Q5/8/8/8/8/8/7K b - - 0 1", Stalemate},
		{"check with block available", "k7/8/8/8/8/8/1r6/R6K b - - 0 1", Ongoing},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatal(err)
			}
			if got := Status(b); got != tc.want {
				t.Errorf("Status() = %v, want %v", got, tc.want)
			}
			if HasLegalMoves(b) != (tc.want == Ongoing) {
				t.Errorf("HasLegalMoves() = %v", HasLegalMoves(b))
			}
		})
	}
}
