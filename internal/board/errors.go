package board

import "errors"

var (
	ErrInvalidSquare = errors.New("invalid square")
	ErrInvalidPiece  = errors.New("invalid piece")
	ErrInvalidFEN    = errors.New("invalid fen")
	ErrInvalidMove   = errors.New("invalid move")
)
