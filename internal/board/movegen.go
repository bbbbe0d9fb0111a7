package board

// promotionPieces is the order promotions are generated in.
var promotionPieces = [4]PieceType{Queen, Rook, Knight, Bishop}

// generator accumulates pseudo-legal moves for one board.
type generator struct {
	b            Board
	onlyCaptures bool
	moves        []Move
}

// GenerateMoves returns all pseudo-legal moves of the side to move.
// Moves that leave the mover's own king in check are NOT filtered out;
// callers needing legality apply the move and test IsInCheck (see LegalMoves).
//
// Moves come in board-scan order (a1..h1, a2..h2, ...) and, per piece, in
// direction order. With onlyCaptures, quiet moves and castling are skipped.
func GenerateMoves(b Board, onlyCaptures bool) []Move {
	g := generator{b: b, onlyCaptures: onlyCaptures, moves: make([]Move, 0, 48)}
	for sq := A1; sq <= H8; sq++ {
		g.squareMoves(sq)
	}
	return g.moves
}

// GenerateSquareMoves returns the pseudo-legal moves of the piece on sq.
// The result is empty if sq is empty or holds a piece of the side not to move.
func GenerateSquareMoves(b Board, sq Square, onlyCaptures bool) []Move {
	g := generator{b: b, onlyCaptures: onlyCaptures}
	g.squareMoves(sq)
	return g.moves
}

func (g *generator) squareMoves(sq Square) {
	piece := g.b.squares[sq]
	if piece == NoPiece || piece.Color() != g.b.sideToMove {
		return
	}

	switch piece.Type() {
	case Bishop:
		g.slide(sq, diagonalDirs, false)
	case Rook:
		g.slide(sq, orthogonalDirs, false)
	case Queen:
		g.slide(sq, queenDirs, false)
	case Knight:
		g.slide(sq, knightDirs, true)
	case King:
		g.kingMoves(sq)
	case Pawn:
		g.pawnMoves(sq)
	}
}

// slide walks each direction until the board edge or a piece. Own pieces
// stop the walk, enemy pieces are captured and then stop it.
func (g *generator) slide(from Square, dirs []direction, oneStep bool) {
	us := g.b.sideToMove
	for _, d := range dirs {
		r, c := from.Row()+d.dr, from.Col()+d.dc
		for onBoard(r, c) {
			to := square(r, c)
			target := g.b.squares[to]
			if target == NoPiece {
				if !g.onlyCaptures {
					g.moves = append(g.moves, NewMove(from, to))
				}
			} else {
				if target.Color() != us {
					g.moves = append(g.moves, NewMove(from, to))
				}
				break
			}
			if oneStep {
				break
			}
			r += d.dr
			c += d.dc
		}
	}
}

func (g *generator) pawnMoves(from Square) {
	us := g.b.sideToMove
	fwd := us.forward()
	startRow := 1
	if us == Black {
		startRow = Size - 2
	}
	nextRow := from.Row() + fwd
	if nextRow < 0 || nextRow >= Size {
		return
	}

	// Advance
	if !g.onlyCaptures {
		one := square(nextRow, from.Col())
		if g.b.IsEmpty(one) {
			g.addPawnMove(from, one)
			if from.Row() == startRow {
				two := square(nextRow+fwd, from.Col())
				if g.b.IsEmpty(two) {
					g.addPawnMove(from, two)
				}
			}
		}
	}

	// Capture
	for _, col := range []int{from.Col() - 1, from.Col() + 1} {
		if col < 0 || col >= Size {
			continue
		}
		to := square(nextRow, col)
		if target := g.b.squares[to]; target != NoPiece && target.Color() != us {
			g.addPawnMove(from, to)
		}
	}

	// Capture en passant
	ep := g.b.enPassant
	if ep != NoSquare && ep.Row() == nextRow && abs(ep.Col()-from.Col()) == 1 {
		g.moves = append(g.moves, NewMove(from, ep))
	}
}

// addPawnMove adds a pawn move, expanded into four promotions on the last rank.
func (g *generator) addPawnMove(from, to Square) {
	if to.Row() != g.b.sideToMove.Other().homeRow() {
		g.moves = append(g.moves, NewMove(from, to))
		return
	}
	for _, pt := range promotionPieces {
		g.moves = append(g.moves, NewPromotion(from, to, pt))
	}
}

func (g *generator) kingMoves(from Square) {
	g.slide(from, queenDirs, true)

	if g.onlyCaptures {
		return
	}

	// Rights are revoked whenever the king or rook leaves its corner, so
	// the pieces are known to be in place when a right is still set.
	us := g.b.sideToMove
	row := us.homeRow()
	if g.b.castlingRights.CanCastle(us, true) &&
		g.canCastle(row, []int{5, 6}, []int{4, 5, 6}) {
		g.moves = append(g.moves, NewMove(square(row, 4), square(row, 6)))
	}
	if g.b.castlingRights.CanCastle(us, false) &&
		g.canCastle(row, []int{1, 2, 3}, []int{2, 3, 4}) {
		g.moves = append(g.moves, NewMove(square(row, 4), square(row, 2)))
	}
}

// canCastle checks that the squares between king and rook are empty and the
// king's start, transit and destination squares are not attacked.
func (g *generator) canCastle(row int, emptyCols, safeCols []int) bool {
	for _, col := range emptyCols {
		if !g.b.IsEmpty(square(row, col)) {
			return false
		}
	}
	them := g.b.sideToMove.Other()
	for _, col := range safeCols {
		if IsSquareAttacked(g.b, square(row, col), them) {
			return false
		}
	}
	return true
}

// LegalMoves returns the moves of the side to move that do not leave its own
// king in check, in generator order.
func LegalMoves(b Board) []Move {
	pseudo := GenerateMoves(b, false)
	legal := pseudo[:0]
	for _, m := range pseudo {
		if !IsInCheck(Apply(b, m), b.sideToMove) {
			legal = append(legal, m)
		}
	}
	return legal
}

// IsLegal returns true if m is a legal move on b.
func IsLegal(b Board, m Move) bool {
	if !m.From().IsValid() || !m.To().IsValid() {
		return false
	}
	for _, cand := range GenerateSquareMoves(b, m.From(), false) {
		if cand == m {
			return !IsInCheck(Apply(b, m), b.sideToMove)
		}
	}
	return false
}

// HasLegalMoves returns true if the side to move has at least one legal move.
func HasLegalMoves(b Board) bool {
	for _, m := range GenerateMoves(b, false) {
		if !IsInCheck(Apply(b, m), b.sideToMove) {
			return true
		}
	}
	return false
}

// GameStatus describes whether the side to move can still play.
type GameStatus int

const (
	Ongoing GameStatus = iota
	Checkmate
	Stalemate
)

// String returns the status name.
func (s GameStatus) String() string {
	switch s {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "ongoing"
	}
}

// Status reports checkmate or stalemate for the side to move.
func Status(b Board) GameStatus {
	if HasLegalMoves(b) {
		return Ongoing
	}
	if b.InCheck() {
		return Checkmate
	}
	return Stalemate
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
