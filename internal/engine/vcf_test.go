package engine

import (
	"testing"

	"github.com/matryer/is"

	"xiangqi/internal/xiangqi"
)

func TestVCFFindsRookMate(t *testing.T) {
	is := is.New(t)

	// 双车：底线车将军，另一车封住九宫二路
	pos := xiangqi.NewEmptyPosition(xiangqi.Red)
	for _, p := range []struct {
		side     xiangqi.Side
		kind     xiangqi.Kind
		row, col int
	}{
		{xiangqi.Black, xiangqi.King, 0, 4},
		{xiangqi.Red, xiangqi.King, 9, 3},
		{xiangqi.Red, xiangqi.Rook, 2, 0},
		{xiangqi.Red, xiangqi.Rook, 1, 8},
	} {
		_, err := pos.Put(p.side, p.kind, p.row, p.col)
		is.NoErr(err)
	}
	before := pos.Encode()

	res := VCFSearch(pos, 2)
	is.True(res.CanWin)
	is.True(res.Move.SameSquares(xiangqi.NewMove(2, 0, 0, 0)))
	is.Equal(pos.Encode(), before)

	// 黑方先走就没有连将
	pos.SideToMove = xiangqi.Black
	pos.Hash = pos.CalculateHash()
	is.True(!VCFSearch(pos, 4).CanWin)
}

func TestVCFImmediateKingCapture(t *testing.T) {
	is := is.New(t)
	pos := mustDecode(t, "4k4/9/9/9/9/9/9/9/4R4/3K5 w")
	is.True(CanCaptureKingNext(pos))

	res := VCFSearch(pos, 2)
	is.True(res.CanWin)
	is.True(res.Move.SameSquares(xiangqi.NewMove(8, 4, 0, 4)))
}

func TestVCFNothingInOpening(t *testing.T) {
	is := is.New(t)
	pos := xiangqi.NewInitialPosition()
	fen := pos.Encode()

	res := VCFSearch(pos, 4)
	is.True(!res.CanWin)
	is.True(res.Move.IsNone())
	is.True(!CanCaptureKingNext(pos))
	is.Equal(pos.Encode(), fen)
}
