// Package board implements the chess board model, move generation and
// move application on a mailbox (8x8 array) representation.
package board

import "fmt"

// Size is the number of rows and columns of the board.
const Size = 8

// Square represents a square on the chess board (0-63).
// Row-major: A1=0, H1=7, A8=56, H8=63. Row 0 is rank 1, column 0 is file a.
type Square uint8

// Square constants for all 64 squares.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// NewSquare creates a square from a row and a column (0-indexed).
// Coordinates outside the board are rejected with ErrInvalidSquare.
func NewSquare(row, col int) (Square, error) {
	if !onBoard(row, col) {
		return NoSquare, fmt.Errorf("%w: row %d col %d", ErrInvalidSquare, row, col)
	}
	return square(row, col), nil
}

// square builds a square without range checks. Callers guarantee onBoard.
func square(row, col int) Square {
	return Square(row*Size + col)
}

func onBoard(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

// Row returns the row of the square (0-7, where 0 is rank 1).
func (sq Square) Row() int {
	return int(sq) >> 3
}

// Col returns the column of the square (0-7, where 0 is file a).
func (sq Square) Col() int {
	return int(sq) & 7
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.Col(), '1'+sq.Row())
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}

	col := int(s[0]) - 'a'
	row := int(s[1]) - '1'

	if !onBoard(row, col) {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}

	return square(row, col), nil
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// Mirror returns the square mirrored vertically (same column, opposite row).
func (sq Square) Mirror() Square {
	return sq ^ 56
}

// offset returns the square at (row+dr, col+dc) and whether it is on the board.
func (sq Square) offset(dr, dc int) (Square, bool) {
	r, c := sq.Row()+dr, sq.Col()+dc
	if !onBoard(r, c) {
		return NoSquare, false
	}
	return square(r, c), true
}
