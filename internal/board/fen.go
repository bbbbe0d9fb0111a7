package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string and returns a Board.
// The move clocks (fields 5 and 6) are optional and default to 0 and 1.
func ParseFEN(fen string) (Board, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 || len(parts) > 6 {
		return Board{}, fmt.Errorf("%w: need 4 to 6 fields, got %d", ErrInvalidFEN, len(parts))
	}

	b := emptyBoard()

	// Parse piece placement (field 0)
	if err := parsePiecePlacement(&b, parts[0]); err != nil {
		return Board{}, err
	}

	// Parse side to move (field 1)
	switch parts[1] {
	case "w":
		b.sideToMove = White
	case "b":
		b.sideToMove = Black
	default:
		return Board{}, fmt.Errorf("%w: invalid side to move %q", ErrInvalidFEN, parts[1])
	}

	// Parse castling rights (field 2)
	if err := parseCastlingRights(&b, parts[2]); err != nil {
		return Board{}, err
	}

	// Parse en passant square (field 3)
	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return Board{}, fmt.Errorf("%w: en passant: %w", ErrInvalidFEN, err)
		}
		b.enPassant = sq
	}

	// Parse half-move clock (field 4, optional)
	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil || hmc < 0 {
			return Board{}, fmt.Errorf("%w: invalid half-move clock %q", ErrInvalidFEN, parts[4])
		}
		b.halfMoveClock = hmc
	}

	// Parse full-move number (field 5, optional)
	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil || fmn < 0 {
			return Board{}, fmt.Errorf("%w: invalid full-move number %q", ErrInvalidFEN, parts[5])
		}
		b.fullMoveNumber = fmn
	}

	return b, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(b *Board, placement string) error {
	rows := strings.Split(placement, "/")
	if len(rows) != Size {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidFEN, len(rows))
	}

	for i, rowStr := range rows {
		row := Size - 1 - i // FEN starts from rank 8
		col := 0

		for j := 0; j < len(rowStr); j++ {
			c := rowStr[j]
			if col > Size-1 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrInvalidFEN, row+1)
			}

			if c >= '1' && c <= '8' {
				// Skip empty squares
				col += int(c - '0')
				continue
			}

			piece, err := PieceFromChar(c)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidFEN, err)
			}
			b.squares[square(row, col)] = piece
			col++
		}

		if col != Size {
			return fmt.Errorf("%w: invalid number of squares in rank %d: got %d", ErrInvalidFEN, row+1, col)
		}
	}

	return nil
}

// parseCastlingRights parses the castling rights section of a FEN string.
func parseCastlingRights(b *Board, castling string) error {
	if castling == "-" {
		b.castlingRights = NoCastling
		return nil
	}

	for _, c := range castling {
		switch c {
		case 'K':
			b.castlingRights |= WhiteKingSideCastle
		case 'Q':
			b.castlingRights |= WhiteQueenSideCastle
		case 'k':
			b.castlingRights |= BlackKingSideCastle
		case 'q':
			b.castlingRights |= BlackQueenSideCastle
		default:
			return fmt.Errorf("%w: invalid castling character %q", ErrInvalidFEN, c)
		}
	}

	return nil
}

// FEN returns the FEN representation of the board.
func (b Board) FEN() string {
	var sb strings.Builder

	// Piece placement
	for row := Size - 1; row >= 0; row-- {
		empty := 0
		for col := 0; col < Size; col++ {
			piece := b.squares[square(row, col)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row > 0 {
			sb.WriteByte('/')
		}
	}

	// Side to move
	sb.WriteByte(' ')
	if b.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	// Castling rights
	sb.WriteByte(' ')
	sb.WriteString(b.castlingRights.String())

	// En passant
	sb.WriteByte(' ')
	sb.WriteString(b.enPassant.String())

	// Half-move clock and full-move number
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.halfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.fullMoveNumber))

	return sb.String()
}
