package board

// Apply plays m on b and returns the resulting board. b is not modified.
//
// The move must come from the generator for b (pseudo-legal is enough);
// there is no validation. In particular Apply trusts that a pawn moving two
// rows did so from its start row, and that a king moving two columns is
// castling with its rook still in the corner.
func Apply(b Board, m Move) Board {
	from, to := m.From(), m.To()
	moved := b.squares[from]
	us := b.sideToMove
	pt := moved.Type()

	next := b

	// Half-move clock
	if pt == Pawn || b.squares[to] != NoPiece {
		next.halfMoveClock = 0
	} else {
		next.halfMoveClock = b.halfMoveClock + 1
	}

	// Destination
	if promo := m.Promotion(); promo != NoPieceType {
		next.squares[to] = NewPiece(promo, us)
	} else {
		next.squares[to] = moved
	}

	// En passant capture removes the pawn behind the target square.
	if pt == Pawn && to == b.enPassant {
		next.squares[square(from.Row(), to.Col())] = NoPiece
	}

	// Castling also moves the rook.
	if pt == King && abs(to.Col()-from.Col()) > 1 {
		row := to.Row()
		if to.Col() == 6 {
			next.squares[square(row, 5)] = next.squares[square(row, 7)]
			next.squares[square(row, 7)] = NoPiece
		} else {
			next.squares[square(row, 3)] = next.squares[square(row, 0)]
			next.squares[square(row, 0)] = NoPiece
		}
	}

	next.squares[from] = NoPiece

	next.castlingRights = updateCastlingRights(b.castlingRights, us, pt, from, to)

	if us == Black {
		next.fullMoveNumber = b.fullMoveNumber + 1
	}

	// En passant target is the square the pawn passed over.
	next.enPassant = NoSquare
	if pt == Pawn && abs(to.Row()-from.Row()) == 2 {
		next.enPassant = square((from.Row()+to.Row())/2, from.Col())
	}

	next.sideToMove = us.Other()
	return next
}

// updateCastlingRights drops rights when the king or a rook leaves its home
// square, or when something lands on the opponent's rook corner.
func updateCastlingRights(cr CastlingRights, us Color, pt PieceType, from, to Square) CastlingRights {
	if from.Row() == us.homeRow() {
		switch {
		case pt == King:
			cr = cr.WithoutColor(us)
		case pt == Rook && from.Col() == 7:
			cr = cr.Without(us, true)
		case pt == Rook && from.Col() == 0:
			cr = cr.Without(us, false)
		}
	}

	// If the rook already left, the right is gone and this is a no-op.
	them := us.Other()
	if to.Row() == them.homeRow() {
		switch to.Col() {
		case 7:
			cr = cr.Without(them, true)
		case 0:
			cr = cr.Without(them, false)
		}
	}
	return cr
}

// ApplyAll plays the moves in order, checking each one for legality.
// It stops at the first illegal move and returns ErrInvalidMove.
func ApplyAll(b Board, moves []Move) (Board, error) {
	for _, m := range moves {
		if !IsLegal(b, m) {
			return b, &IllegalMoveError{Move: m, FEN: b.FEN()}
		}
		b = Apply(b, m)
	}
	return b, nil
}

// IllegalMoveError reports a move that is not legal in a position.
type IllegalMoveError struct {
	Move Move
	FEN  string
}

func (e *IllegalMoveError) Error() string {
	return "illegal move " + e.Move.String() + " in " + e.FEN
}

// Unwrap returns ErrInvalidMove.
func (e *IllegalMoveError) Unwrap() error {
	return ErrInvalidMove
}
