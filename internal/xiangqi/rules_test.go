package xiangqi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPut(t *testing.T, pos *Position, side Side, kind Kind, row, col int) *Piece {
	t.Helper()
	pc, err := pos.Put(side, kind, row, col)
	require.NoError(t, err)
	return pc
}

func TestElephantEye(t *testing.T) {
	pos := NewEmptyPosition(Red)
	el := mustPut(t, pos, Red, Elephant, 9, 2)

	assert.True(t, pos.Board.IsLegalDestination(el, 7, 4))
	assert.True(t, pos.Board.IsLegalDestination(el, 7, 0))

	mustPut(t, pos, Black, Pawn, 8, 3)
	assert.False(t, pos.Board.IsLegalDestination(el, 7, 4), "eye blocked")
	assert.True(t, pos.Board.IsLegalDestination(el, 7, 0), "other eye still clear")

	// 不是田字
	assert.False(t, pos.Board.IsLegalDestination(el, 8, 3))
	assert.False(t, pos.Board.IsLegalDestination(el, 7, 2))
}

func TestElephantCannotCrossRiver(t *testing.T) {
	pos := NewEmptyPosition(Red)
	red := mustPut(t, pos, Red, Elephant, 5, 2)
	black := mustPut(t, pos, Black, Elephant, 4, 6)

	assert.False(t, pos.Board.IsLegalDestination(red, 3, 0))
	assert.False(t, pos.Board.IsLegalDestination(red, 3, 4))
	assert.True(t, pos.Board.IsLegalDestination(red, 7, 0))

	assert.False(t, pos.Board.IsLegalDestination(black, 6, 8))
	assert.False(t, pos.Board.IsLegalDestination(black, 6, 4))
	assert.True(t, pos.Board.IsLegalDestination(black, 2, 4))
}

func TestHorseLeg(t *testing.T) {
	pos := NewEmptyPosition(Red)
	h := mustPut(t, pos, Red, Horse, 9, 1)

	for _, sq := range []Square{{7, 0}, {7, 2}, {8, 3}} {
		assert.True(t, pos.Board.IsLegalDestination(h, sq.Row, sq.Col), "%v", sq)
	}

	// 蹩马腿：(8,1) 挡住向上的两步
	mustPut(t, pos, Red, Pawn, 8, 1)
	assert.False(t, pos.Board.IsLegalDestination(h, 7, 0))
	assert.False(t, pos.Board.IsLegalDestination(h, 7, 2))
	assert.True(t, pos.Board.IsLegalDestination(h, 8, 3))

	mustPut(t, pos, Black, Pawn, 9, 2)
	assert.False(t, pos.Board.IsLegalDestination(h, 8, 3))

	// 非日字
	assert.False(t, pos.Board.IsLegalDestination(h, 7, 3))
	assert.False(t, pos.Board.IsLegalDestination(h, 9, 3))
}

func TestRookObstruction(t *testing.T) {
	pos := NewEmptyPosition(Red)
	r := mustPut(t, pos, Red, Rook, 5, 0)

	assert.True(t, pos.Board.IsLegalDestination(r, 5, 8))
	assert.True(t, pos.Board.IsLegalDestination(r, 0, 0))
	assert.False(t, pos.Board.IsLegalDestination(r, 4, 1), "not aligned")

	mustPut(t, pos, Black, Horse, 5, 4)
	assert.True(t, pos.Board.IsLegalDestination(r, 5, 4), "capture first piece")
	assert.False(t, pos.Board.IsLegalDestination(r, 5, 5), "blocked")
}

func TestCannonScreen(t *testing.T) {
	tests := []struct {
		name    string
		screens []int // 炮与目标之间放子的列
		target  bool  // 目标格是否有敌子
		want    bool
	}{
		{name: "quiet move, clear path", want: true},
		{name: "quiet move over one piece", screens: []int{3}, want: false},
		{name: "capture without screen", target: true, want: false},
		{name: "capture over one screen", screens: []int{3}, target: true, want: true},
		{name: "capture over two screens", screens: []int{2, 5}, target: true, want: false},
		{name: "quiet move over two pieces", screens: []int{2, 5}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := NewEmptyPosition(Red)
			cn := mustPut(t, pos, Red, Cannon, 5, 0)
			for _, c := range tt.screens {
				mustPut(t, pos, Black, Pawn, 5, c)
			}
			if tt.target {
				mustPut(t, pos, Black, Rook, 5, 7)
			}
			assert.Equal(t, tt.want, pos.Board.IsLegalDestination(cn, 5, 7))
		})
	}
}

func TestPawnDirection(t *testing.T) {
	pos := NewEmptyPosition(Red)
	home := mustPut(t, pos, Red, Pawn, 6, 4)
	river := mustPut(t, pos, Red, Pawn, 5, 0)
	crossed := mustPut(t, pos, Red, Pawn, 4, 6)

	assert.True(t, pos.Board.IsLegalDestination(home, 5, 4))
	assert.False(t, pos.Board.IsLegalDestination(home, 6, 3), "sideways before river")
	assert.False(t, pos.Board.IsLegalDestination(home, 7, 4), "backward")
	assert.False(t, pos.Board.IsLegalDestination(home, 4, 4), "two steps")

	// 第 5 行仍在本方
	assert.False(t, pos.Board.IsLegalDestination(river, 5, 1))
	assert.True(t, pos.Board.IsLegalDestination(river, 4, 0))

	assert.True(t, pos.Board.IsLegalDestination(crossed, 4, 5))
	assert.True(t, pos.Board.IsLegalDestination(crossed, 4, 7))
	assert.True(t, pos.Board.IsLegalDestination(crossed, 3, 6))
	assert.False(t, pos.Board.IsLegalDestination(crossed, 5, 6), "backward after crossing")
	assert.False(t, pos.Board.IsLegalDestination(crossed, 3, 7), "diagonal")

	bp := mustPut(t, pos, Black, Pawn, 3, 2)
	assert.True(t, pos.Board.IsLegalDestination(bp, 4, 2))
	assert.False(t, pos.Board.IsLegalDestination(bp, 2, 2))
	assert.False(t, pos.Board.IsLegalDestination(bp, 3, 1))

	bx := mustPut(t, pos, Black, Pawn, 7, 8)
	assert.True(t, pos.Board.IsLegalDestination(bx, 7, 7))
	assert.True(t, pos.Board.IsLegalDestination(bx, 8, 8))
	assert.False(t, pos.Board.IsLegalDestination(bx, 6, 8))
}

func TestKingAndAdvisorStayInPalace(t *testing.T) {
	pos := NewEmptyPosition(Red)
	k := mustPut(t, pos, Red, King, 7, 3)
	a := mustPut(t, pos, Red, Advisor, 8, 4)
	bk := mustPut(t, pos, Black, King, 0, 5)

	assert.False(t, pos.Board.IsLegalDestination(k, 6, 3), "leaves palace upward")
	assert.False(t, pos.Board.IsLegalDestination(k, 7, 2), "leaves palace sideways")
	assert.True(t, pos.Board.IsLegalDestination(k, 8, 3))
	assert.False(t, pos.Board.IsLegalDestination(k, 8, 4), "own advisor")
	assert.False(t, pos.Board.IsLegalDestination(k, 8, 2), "diagonal")

	assert.True(t, pos.Board.IsLegalDestination(a, 9, 5))
	assert.True(t, pos.Board.IsLegalDestination(a, 7, 5))
	assert.False(t, pos.Board.IsLegalDestination(a, 7, 4), "orthogonal")
	assert.False(t, pos.Board.IsLegalDestination(a, 8, 4), "same square")

	assert.True(t, pos.Board.IsLegalDestination(bk, 1, 5))
	assert.False(t, pos.Board.IsLegalDestination(bk, 0, 6))
	assert.False(t, pos.Board.IsLegalDestination(bk, 2, 5), "two steps")
	assert.False(t, pos.Board.IsLegalDestination(bk, -1, 5), "off board")
}

func TestObstacleCount(t *testing.T) {
	pos := NewInitialPosition()
	b := &pos.Board

	assert.Equal(t, 0, b.ObstacleCount(9, 0, 6, 0))
	assert.Equal(t, 1, b.ObstacleCount(9, 0, 5, 0), "red pawn on a3")
	assert.Equal(t, 2, b.ObstacleCount(9, 0, 0, 0))
	assert.Equal(t, 7, b.ObstacleCount(9, 0, 9, 8))
	assert.Equal(t, 0, b.ObstacleCount(9, 0, 8, 1), "not aligned")
	assert.Equal(t, b.ObstacleCount(0, 4, 9, 4), b.ObstacleCount(9, 4, 0, 4))
}
