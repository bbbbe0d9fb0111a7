package board

import (
	"fmt"
	"strings"
)

// ToSAN converts a legal move on b to Standard Algebraic Notation.
func ToSAN(b Board, m Move) string {
	if m == NoMove {
		return "-"
	}

	from, to := m.From(), m.To()
	piece := b.squares[from]
	if piece == NoPiece {
		return m.String() // Fallback to long algebraic
	}
	pt := piece.Type()

	var sb strings.Builder

	if pt == King && abs(to.Col()-from.Col()) > 1 {
		if to.Col() > from.Col() {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	} else {
		if pt != Pawn {
			sb.WriteByte("PNBRQK"[pt])
			sb.WriteString(disambiguation(b, m, pt))
		}

		if isCapture(b, m) {
			if pt == Pawn {
				// Pawn captures include the file of origin
				sb.WriteByte('a' + byte(from.Col()))
			}
			sb.WriteByte('x')
		}

		sb.WriteString(to.String())

		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte("PNBRQK"[m.Promotion()])
		}
	}

	next := Apply(b, m)
	switch Status(next) {
	case Checkmate:
		sb.WriteByte('#')
	default:
		if next.InCheck() {
			sb.WriteByte('+')
		}
	}

	return sb.String()
}

// isCapture reports whether m takes a piece, en passant included.
func isCapture(b Board, m Move) bool {
	if b.squares[m.To()] != NoPiece {
		return true
	}
	return b.squares[m.From()].Type() == Pawn && m.To() == b.enPassant
}

// disambiguation returns the origin file, rank or square needed when another
// piece of the same type can reach the same destination.
func disambiguation(b Board, m Move, pt PieceType) string {
	from, to := m.From(), m.To()

	var candidates []Square
	for _, other := range LegalMoves(b) {
		if other.To() != to || other.From() == from {
			continue
		}
		if b.squares[other.From()].Type() == pt {
			candidates = append(candidates, other.From())
		}
	}

	if len(candidates) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range candidates {
		if sq.Col() == from.Col() {
			sameFile = true
		}
		if sq.Row() == from.Row() {
			sameRank = true
		}
	}

	if !sameFile {
		return string(rune('a' + from.Col()))
	}
	if !sameRank {
		return string(rune('1' + from.Row()))
	}
	return from.String()
}

// ParseSAN finds the legal move on b that the SAN string describes.
func ParseSAN(b Board, s string) (Move, error) {
	s = strings.TrimSpace(s)
	orig := s
	row := b.sideToMove.homeRow()

	switch s {
	case "O-O", "0-0", "O-O+", "O-O#":
		return matchLegal(b, NewMove(square(row, 4), square(row, 6)), orig)
	case "O-O-O", "0-0-0", "O-O-O+", "O-O-O#":
		return matchLegal(b, NewMove(square(row, 4), square(row, 2)), orig)
	}

	s = strings.TrimRight(s, "+#")

	promo := NoPieceType
	if idx := strings.Index(s, "="); idx >= 0 && idx+1 < len(s) {
		pt, err := ParsePieceType(s[idx+1] + 'a' - 'A')
		if err != nil {
			return NoMove, fmt.Errorf("%w: %q: %w", ErrInvalidMove, orig, err)
		}
		promo = pt
		s = s[:idx]
	}

	capture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		p, err := ParsePieceType(s[0] + 'a' - 'A')
		if err != nil {
			return NoMove, fmt.Errorf("%w: %q: %w", ErrInvalidMove, orig, err)
		}
		pt = p
		s = s[1:]
	}

	if len(s) < 2 {
		return NoMove, fmt.Errorf("%w: %q", ErrInvalidMove, orig)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q: %w", ErrInvalidMove, orig, err)
	}
	s = s[:len(s)-2]

	fileHint, rankHint := -1, -1
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'h':
			fileHint = int(c - 'a')
		case c >= '1' && c <= '8':
			rankHint = int(c - '1')
		}
	}

	for _, m := range LegalMoves(b) {
		if m.To() != dest || b.squares[m.From()].Type() != pt {
			continue
		}
		if fileHint >= 0 && m.From().Col() != fileHint {
			continue
		}
		if rankHint >= 0 && m.From().Row() != rankHint {
			continue
		}
		if capture && !isCapture(b, m) {
			continue
		}
		if m.Promotion() != promo {
			continue
		}
		return m, nil
	}

	return NoMove, fmt.Errorf("%w: %q in %s", ErrInvalidMove, orig, b.FEN())
}

func matchLegal(b Board, m Move, san string) (Move, error) {
	if b.squares[m.From()].Is(King, b.sideToMove) && IsLegal(b, m) {
		return m, nil
	}
	return NoMove, fmt.Errorf("%w: %q in %s", ErrInvalidMove, san, b.FEN())
}

// MovesToSAN converts a sequence of moves played from b to SAN notation.
func MovesToSAN(b Board, moves []Move) []string {
	result := make([]string, len(moves))
	for i, m := range moves {
		result[i] = ToSAN(b, m)
		b = Apply(b, m)
	}
	return result
}
