package board

// direction is a (row, col) step.
type direction struct {
	dr, dc int
}

// Step sets shared by the attack detector and the move generator.
var (
	orthogonalDirs = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonalDirs   = []direction{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}}
	queenDirs      = []direction{{1, 1}, {1, -1}, {1, 0}, {0, 1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}
	knightDirs     = []direction{{1, 2}, {1, -2}, {-1, 2}, {-1, -2}, {2, 1}, {2, -1}, {-2, 1}, {-2, -1}}
)

// IsSquareAttacked returns true if the square is attacked by a piece of color by.
// Attacks are recomputed from scratch by walking outward from the square.
func IsSquareAttacked(b Board, sq Square, by Color) bool {
	// Rooks and queens along ranks and files
	for _, d := range orthogonalDirs {
		if pt, ok := firstOccupant(b, sq, d, by, false); ok && (pt == Rook || pt == Queen) {
			return true
		}
	}

	// Bishops and queens along diagonals
	for _, d := range diagonalDirs {
		if pt, ok := firstOccupant(b, sq, d, by, false); ok && (pt == Bishop || pt == Queen) {
			return true
		}
	}

	for _, d := range knightDirs {
		if pt, ok := firstOccupant(b, sq, d, by, true); ok && pt == Knight {
			return true
		}
	}

	for _, d := range queenDirs {
		if pt, ok := firstOccupant(b, sq, d, by, true); ok && pt == King {
			return true
		}
	}

	// Pawns attack diagonally forward, so they sit one row behind the
	// target from their own point of view.
	pawnRow := sq.Row() - by.forward()
	for _, dc := range []int{-1, 1} {
		col := sq.Col() + dc
		if onBoard(pawnRow, col) && b.squares[square(pawnRow, col)].Is(Pawn, by) {
			return true
		}
	}

	return false
}

// firstOccupant walks from sq in direction d and returns the type of the
// first piece met if it belongs to color by. A piece of the other color
// blocks the ray. With oneStep only the adjacent square is looked at.
func firstOccupant(b Board, sq Square, d direction, by Color, oneStep bool) (PieceType, bool) {
	r, c := sq.Row()+d.dr, sq.Col()+d.dc
	for onBoard(r, c) {
		if p := b.squares[square(r, c)]; p != NoPiece {
			if p.Color() != by {
				return NoPieceType, false
			}
			return p.Type(), true
		}
		if oneStep {
			break
		}
		r += d.dr
		c += d.dc
	}
	return NoPieceType, false
}

// IsInCheck returns true if the color's king is attacked.
// A color without a king is never in check.
func IsInCheck(b Board, c Color) bool {
	ksq := b.KingSquare(c)
	if ksq == NoSquare {
		return false
	}
	return IsSquareAttacked(b, ksq, c.Other())
}

// InCheck returns true if the side to move is in check.
func (b Board) InCheck() bool {
	return IsInCheck(b, b.sideToMove)
}
