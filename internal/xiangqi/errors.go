package xiangqi

import "errors"

var (
	ErrInvalidFEN     = errors.New("invalid FEN")
	ErrBadMoveText    = errors.New("bad move text")
	ErrOutOfBoard     = errors.New("square out of board")
	ErrOccupied       = errors.New("square already occupied")
	ErrNoPiece        = errors.New("no piece on source square")
	ErrNotYourTurn    = errors.New("piece does not belong to side to move")
	ErrIllegalMove    = errors.New("illegal move")
	ErrFlyingGenerals = errors.New("move leaves kings facing")
)
