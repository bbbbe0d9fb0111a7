// Package engine implements position evaluation, the alpha-beta search and
// the game orchestration around it.
package engine

import (
	"github.com/lorenzosim/gigibot/internal/board"
)

// Evaluation constants
const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 20000
)

// Piece values array for quick lookup
var pieceValues = [7]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue, 0}

// Piece-Square Tables (PST) for positional evaluation.
// Values are from White's perspective with the first row being rank 8;
// black pieces read the table vertically mirrored.

// Pawn PST - encourages central control and advancement
var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

// Knight PST - encourages central positioning
var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

// Bishop PST - encourages central diagonals
var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

// Rook PST - encourages 7th rank and central files
var rookPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

// Queen PST - slight central preference
var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

// King PST (middlegame) - encourages castling
var kingMidgamePST = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

// King PST (endgame) - king should be active
var kingEndgamePST = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

// All non-king PSTs combined for easy lookup
var psts = [...]*[64]int{
	&pawnPST, &knightPST, &bishopPST, &rookPST, &queenPST,
}

// pstIndex maps a board square to the table index for a piece of color c.
func pstIndex(sq board.Square, c board.Color) board.Square {
	if c == board.White {
		return sq.Mirror()
	}
	return sq
}

// Evaluate returns the static evaluation of the position in centipawns,
// relative to the side to move.
func Evaluate(b board.Board) int {
	us := b.SideToMove()
	score := 0

	var counts [2][6]int
	kingSquares := [2]board.Square{board.NoSquare, board.NoSquare}

	for sq := board.A1; sq <= board.H8; sq++ {
		p := b.PieceAt(sq)
		if p == board.NoPiece {
			continue
		}
		pt, c := p.Type(), p.Color()
		counts[c][pt]++

		// Material plus positional bonus. Kings get theirs below, once the
		// phase of each side is known.
		value := pieceValues[pt]
		if pt == board.King {
			kingSquares[c] = sq
		} else {
			value += psts[pt][pstIndex(sq, c)]
		}

		if c == us {
			score += value
		} else {
			score -= value
		}
	}

	for _, c := range []board.Color{board.White, board.Black} {
		ksq := kingSquares[c]
		if ksq == board.NoSquare {
			continue
		}
		table := &kingMidgamePST
		if isEndgame(counts[c]) {
			table = &kingEndgamePST
		}
		if c == us {
			score += table[pstIndex(ksq, c)]
		} else {
			score -= table[pstIndex(ksq, c)]
		}
	}

	return score
}

// isEndgame reports whether one side's material puts its king in the endgame:
// no queen, or a lone queen with no rooks and at most one minor piece.
func isEndgame(counts [6]int) bool {
	queens := counts[board.Queen]
	if queens == 0 {
		return true
	}
	return queens == 1 && counts[board.Rook] == 0 && counts[board.Knight]+counts[board.Bishop] <= 1
}

// IsEndgame reports whether the king of color c is evaluated with the endgame table.
func IsEndgame(b board.Board, c board.Color) bool {
	var counts [6]int
	for sq := board.A1; sq <= board.H8; sq++ {
		if p := b.PieceAt(sq); p != board.NoPiece && p.Color() == c {
			counts[p.Type()]++
		}
	}
	return isEndgame(counts)
}

// EvaluateMaterial returns just the material balance relative to the side to move.
func EvaluateMaterial(b board.Board) int {
	score := 0
	for sq := board.A1; sq <= board.H8; sq++ {
		p := b.PieceAt(sq)
		if p == board.NoPiece || p.Type() == board.King {
			continue
		}
		if p.Color() == b.SideToMove() {
			score += pieceValues[p.Type()]
		} else {
			score -= pieceValues[p.Type()]
		}
	}
	return score
}
