package board

import (
	"fmt"
	"strings"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// castleFlag returns the flag for the given color and wing.
func castleFlag(c Color, kingSide bool) CastlingRights {
	switch {
	case c == White && kingSide:
		return WhiteKingSideCastle
	case c == White:
		return WhiteQueenSideCastle
	case kingSide:
		return BlackKingSideCastle
	default:
		return BlackQueenSideCastle
	}
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castleFlag(c, kingSide) != 0
}

// Without returns the rights with the given color's wing cleared.
// Rights are only ever removed, never added back.
func (cr CastlingRights) Without(c Color, kingSide bool) CastlingRights {
	return cr &^ castleFlag(c, kingSide)
}

// WithoutColor returns the rights with both wings of the color cleared.
func (cr CastlingRights) WithoutColor(c Color) CastlingRights {
	return cr.Without(c, true).Without(c, false)
}

// Board is an immutable snapshot of a chess position: the occupant of each
// square, side to move, castling rights, en passant target and move clocks.
//
// Board is a value type. Apply and the FEN parser produce new boards and
// nothing mutates an existing one, so boards can be shared freely between
// the caller and a running search.
type Board struct {
	squares        [64]Piece
	sideToMove     Color
	castlingRights CastlingRights
	enPassant      Square // Target square for en passant, NoSquare if none
	halfMoveClock  int    // Plies since last pawn move or capture
	fullMoveNumber int
}

// NewBoard returns the starting position.
func NewBoard() Board {
	b, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return b
}

// emptyBoard returns a board with no pieces, white to move.
func emptyBoard() Board {
	b := Board{enPassant: NoSquare, fullMoveNumber: 1}
	for i := range b.squares {
		b.squares[i] = NoPiece
	}
	return b
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (b Board) PieceAt(sq Square) Piece {
	return b.squares[sq]
}

// IsEmpty returns true if the square is empty.
func (b Board) IsEmpty(sq Square) bool {
	return b.squares[sq] == NoPiece
}

// SideToMove returns the color whose turn it is.
func (b Board) SideToMove() Color {
	return b.sideToMove
}

// CastlingRights returns the castling rights.
func (b Board) CastlingRights() CastlingRights {
	return b.castlingRights
}

// EnPassant returns the en passant target square, or NoSquare.
// This is the square a capturing pawn lands on, not the captured pawn's square.
func (b Board) EnPassant() Square {
	return b.enPassant
}

// HalfMoveClock returns the number of plies since the last pawn move or capture.
func (b Board) HalfMoveClock() int {
	return b.halfMoveClock
}

// FullMoveNumber returns the full move counter, incremented after black moves.
func (b Board) FullMoveNumber() int {
	return b.fullMoveNumber
}

// KingSquare returns the square of the color's king, or NoSquare if it has none.
func (b Board) KingSquare(c Color) Square {
	king := NewPiece(King, c)
	for sq := A1; sq <= H8; sq++ {
		if b.squares[sq] == king {
			return sq
		}
	}
	return NoSquare
}

// Mirror returns the color-flipped board: rows mirrored vertically, piece
// colors swapped, side to move and castling rights swapped.
func (b Board) Mirror() Board {
	m := emptyBoard()
	for sq := A1; sq <= H8; sq++ {
		if p := b.squares[sq]; p != NoPiece {
			m.squares[sq.Mirror()] = NewPiece(p.Type(), p.Color().Other())
		}
	}
	m.sideToMove = b.sideToMove.Other()
	for _, c := range []Color{White, Black} {
		for _, kingSide := range []bool{true, false} {
			if b.castlingRights.CanCastle(c, kingSide) {
				m.castlingRights |= castleFlag(c.Other(), kingSide)
			}
		}
	}
	if b.enPassant != NoSquare {
		m.enPassant = b.enPassant.Mirror()
	}
	m.halfMoveClock = b.halfMoveClock
	m.fullMoveNumber = b.fullMoveNumber
	return m
}

// String returns a visual representation of the board.
func (b Board) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for row := Size - 1; row >= 0; row-- {
		fmt.Fprintf(&sb, "%d  ", row+1)
		for col := 0; col < Size; col++ {
			piece := b.squares[square(row, col)]
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", b.sideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", b.castlingRights)
	fmt.Fprintf(&sb, "En passant: %s\n", b.enPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", b.halfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", b.fullMoveNumber)
	fmt.Fprintf(&sb, "Fen: %s\n", b.FEN())
	return sb.String()
}
