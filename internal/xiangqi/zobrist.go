package xiangqi

import (
	"sync"

	"lukechampine.com/frand"
)

const zobristBound = 1<<63 - 2

var (
	zobristOnce sync.Once

	zobristPieces [2][numKinds][Rows * Cols]uint64
	zobristSide   uint64
)

func initZobrist() {
	zobristOnce.Do(func() {
		for side := 0; side < 2; side++ {
			for k := 1; k < numKinds; k++ {
				for sq := 0; sq < Rows*Cols; sq++ {
					zobristPieces[side][k][sq] = frand.Uint64n(zobristBound) + 1
				}
			}
		}
		zobristSide = frand.Uint64n(zobristBound) + 1
	})
}

func pieceHashKey(pc *Piece, row, col int) uint64 {
	if pc == nil || !onBoard(row, col) {
		return 0
	}
	initZobrist()
	var sideIdx int
	switch pc.Side {
	case Red:
		sideIdx = 0
	case Black:
		sideIdx = 1
	default:
		return 0
	}
	k := int(pc.Kind)
	if k <= 0 || k >= numKinds {
		return 0
	}
	return zobristPieces[sideIdx][k][row*Cols+col]
}

// CalculateHash 全量计算当前局面的 Zobrist 哈希。
func (p *Position) CalculateHash() uint64 {
	initZobrist()

	var h uint64
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if pc := p.Board.cells[r][c]; pc != nil {
				h ^= pieceHashKey(pc, r, c)
			}
		}
	}
	if p.SideToMove == Black {
		h ^= zobristSide
	}
	return h
}
