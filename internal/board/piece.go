package board

import "fmt"

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// homeRow returns the row holding the color's king and rooks at the start.
func (c Color) homeRow() int {
	if c == White {
		return 0
	}
	return Size - 1
}

// forward returns the row direction pawns of this color advance in.
func (c Color) forward() int {
	if c == White {
		return 1
	}
	return -1
}

// PieceType represents the type of a chess piece.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType PieceType = 6
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the FEN character for the piece type (lowercase).
func (pt PieceType) Char() byte {
	chars := []byte{'p', 'n', 'b', 'r', 'q', 'k', ' '}
	if pt > NoPieceType {
		return ' '
	}
	return chars[pt]
}

// IsMajor reports whether the piece is a queen or a rook.
func (pt PieceType) IsMajor() bool {
	return pt == Queen || pt == Rook
}

// IsMinor reports whether the piece is a bishop or a knight.
func (pt PieceType) IsMinor() bool {
	return pt == Bishop || pt == Knight
}

// ParsePieceType converts a lowercase letter ("q", "n", ...) to a PieceType.
func ParsePieceType(letter byte) (PieceType, error) {
	for pt := Pawn; pt <= King; pt++ {
		if pt.Char() == letter {
			return pt, nil
		}
	}
	return NoPieceType, fmt.Errorf("%w: %q", ErrInvalidPiece, letter)
}

// Piece combines PieceType and Color into a single value.
// Encoded as: pieceType + color*6
type Piece uint8

const (
	WhitePawn   Piece = Piece(Pawn) + Piece(White)*6
	WhiteKnight Piece = Piece(Knight) + Piece(White)*6
	WhiteBishop Piece = Piece(Bishop) + Piece(White)*6
	WhiteRook   Piece = Piece(Rook) + Piece(White)*6
	WhiteQueen  Piece = Piece(Queen) + Piece(White)*6
	WhiteKing   Piece = Piece(King) + Piece(White)*6
	BlackPawn   Piece = Piece(Pawn) + Piece(Black)*6
	BlackKnight Piece = Piece(Knight) + Piece(Black)*6
	BlackBishop Piece = Piece(Bishop) + Piece(Black)*6
	BlackRook   Piece = Piece(Rook) + Piece(Black)*6
	BlackQueen  Piece = Piece(Queen) + Piece(Black)*6
	BlackKing   Piece = Piece(King) + Piece(Black)*6
	NoPiece     Piece = 12
)

// NewPiece creates a Piece from PieceType and Color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c > Black {
		return NoPiece
	}
	return Piece(pt) + Piece(c)*6
}

// Type returns the PieceType of the piece.
func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

// Color returns the Color of the piece. Only meaningful for p != NoPiece.
func (p Piece) Color() Color {
	return Color(p / 6)
}

// Is reports whether p is a piece of the given type and color.
func (p Piece) Is(pt PieceType, c Color) bool {
	return p != NoPiece && p.Type() == pt && p.Color() == c
}

// String returns the FEN character for the piece.
// Uppercase for white, lowercase for black.
func (p Piece) String() string {
	if p >= NoPiece {
		return " "
	}
	chars := "PNBRQKpnbrqk"
	return string(chars[p])
}

// PieceFromChar converts a FEN character to a Piece.
func PieceFromChar(c byte) (Piece, error) {
	color := White
	letter := c
	if c >= 'a' && c <= 'z' {
		color = Black
	} else {
		letter = c + 'a' - 'A'
	}
	pt, err := ParsePieceType(letter)
	if err != nil {
		return NoPiece, err
	}
	return NewPiece(pt, color), nil
}
