package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xiangqi/internal/xiangqi"
)

func TestEvaluateInitialIsBalanced(t *testing.T) {
	pos := xiangqi.NewInitialPosition()
	assert.Equal(t, 0, Evaluate(pos, xiangqi.Red))
	assert.Equal(t, 0, Evaluate(pos, xiangqi.Black))
}

func TestEvaluateAntisymmetric(t *testing.T) {
	pos := xiangqi.NewInitialPosition()
	for ply := 0; ply < 30; ply++ {
		assert.Equal(t, Evaluate(pos, xiangqi.Red), -Evaluate(pos, xiangqi.Black), "ply %d: %s", ply, pos.Encode())
		moves := pos.LegalMoves()
		if len(moves) == 0 {
			break
		}
		pos.MakeMove(moves[(ply*5)%len(moves)])
	}
}

func TestEvaluateMaterial(t *testing.T) {
	// 黑方少一个车
	pos, err := xiangqi.DecodePosition("1nbakabnr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C5C1/9/RNBAKABNR w")
	require.NoError(t, err)
	red := Evaluate(pos, xiangqi.Red)
	assert.Greater(t, red, xiangqi.PieceValue(xiangqi.Rook)-50)
	assert.Equal(t, -red, Evaluate(pos, xiangqi.Black))
}

func TestPositionalTableMirrored(t *testing.T) {
	// 红兵过河与黑卒过河的位置分相同
	assert.Equal(t,
		positionalBonus(xiangqi.Pawn, xiangqi.Red, 3, 4),
		positionalBonus(xiangqi.Pawn, xiangqi.Black, 6, 4))
	assert.Greater(t,
		positionalBonus(xiangqi.Pawn, xiangqi.Red, 3, 4),
		positionalBonus(xiangqi.Pawn, xiangqi.Red, 6, 4))
	assert.Equal(t,
		positionalBonus(xiangqi.Horse, xiangqi.Red, 2, 1),
		positionalBonus(xiangqi.Horse, xiangqi.Black, 7, 1))
}

func TestEvaluateIsPure(t *testing.T) {
	pos := xiangqi.NewInitialPosition()
	before := pos.Encode()
	_ = Evaluate(pos, xiangqi.Red)
	assert.Equal(t, before, pos.Encode())
}
