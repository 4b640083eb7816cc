package engine

import (
	"xiangqi/internal/xiangqi"
)

// 位置分表：从红方视角，第 0 行是对方底线，第 9 行是红方底线。
// 黑方查表时上下翻转（row -> 9-row），列左右对称不用翻。
type pieceSquareTable [xiangqi.Rows][xiangqi.Cols]int

var pawnTable = pieceSquareTable{
	{0, 2, 4, 6, 8, 6, 4, 2, 0},
	{20, 30, 45, 55, 60, 55, 45, 30, 20},
	{20, 30, 40, 50, 55, 50, 40, 30, 20},
	{15, 25, 35, 40, 45, 40, 35, 25, 15},
	{10, 18, 22, 35, 40, 35, 22, 18, 10},
	{3, 0, 4, 0, 7, 0, 4, 0, 3},
	{-2, 0, -2, 0, 6, 0, -2, 0, -2},
	{0, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 0, 0},
}

var rookTable = pieceSquareTable{
	{14, 14, 12, 18, 16, 18, 12, 14, 14},
	{16, 20, 18, 24, 26, 24, 18, 20, 16},
	{12, 12, 12, 18, 18, 18, 12, 12, 12},
	{12, 18, 16, 22, 22, 22, 16, 18, 12},
	{12, 14, 12, 18, 18, 18, 12, 14, 12},
	{12, 16, 14, 20, 20, 20, 14, 16, 12},
	{6, 10, 8, 14, 14, 14, 8, 10, 6},
	{4, 8, 6, 14, 12, 14, 6, 8, 4},
	{8, 4, 8, 16, 8, 16, 8, 4, 8},
	{-2, 10, 6, 14, 12, 14, 6, 10, -2},
}

var horseTable = pieceSquareTable{
	{4, 8, 16, 12, 4, 12, 16, 8, 4},
	{4, 10, 28, 16, 8, 16, 28, 10, 4},
	{12, 14, 16, 20, 18, 20, 16, 14, 12},
	{8, 24, 18, 24, 20, 24, 18, 24, 8},
	{6, 16, 14, 18, 16, 18, 14, 16, 6},
	{4, 12, 16, 14, 12, 14, 16, 12, 4},
	{2, 6, 8, 6, 10, 6, 8, 6, 2},
	{4, 2, 8, 8, 4, 8, 8, 2, 4},
	{0, 2, 4, 4, -2, 4, 4, 2, 0},
	{0, -4, 0, 0, 0, 0, 0, -4, 0},
}

var cannonTable = pieceSquareTable{
	{6, 4, 0, -10, -12, -10, 0, 4, 6},
	{2, 2, 0, -4, -14, -4, 0, 2, 2},
	{2, 2, 0, -10, -8, -10, 0, 2, 2},
	{0, 0, -2, 4, 10, 4, -2, 0, 0},
	{0, 0, 0, 2, 8, 2, 0, 0, 0},
	{-2, 0, 4, 2, 6, 2, 4, 0, -2},
	{0, 0, 0, 2, 4, 2, 0, 0, 0},
	{4, 0, 8, 6, 10, 6, 8, 0, 4},
	{0, 2, 4, 6, 6, 6, 4, 2, 0},
	{0, 0, 2, 6, 6, 6, 2, 0, 0},
}

// 士、象、帅只在自家半场有意义的格子上给分
var advisorTable = pieceSquareTable{
	7: {0, 0, 0, 0, 0, 0, 0, 0, 0},
	8: {0, 0, 0, 0, 3, 0, 0, 0, 0},
}

var elephantTable = pieceSquareTable{
	5: {0, 0, -1, 0, 0, 0, -1, 0, 0},
	7: {-2, 0, 0, 0, 3, 0, 0, 0, -2},
}

var kingTable = pieceSquareTable{
	7: {0, 0, 0, -8, -6, -8, 0, 0, 0},
	8: {0, 0, 0, -3, -2, -3, 0, 0, 0},
	9: {0, 0, 0, 0, 2, 0, 0, 0, 0},
}

var positionTables = map[xiangqi.Kind]*pieceSquareTable{
	xiangqi.King:     &kingTable,
	xiangqi.Advisor:  &advisorTable,
	xiangqi.Elephant: &elephantTable,
	xiangqi.Horse:    &horseTable,
	xiangqi.Rook:     &rookTable,
	xiangqi.Cannon:   &cannonTable,
	xiangqi.Pawn:     &pawnTable,
}

// 计算某个棋子在 (row, col) 的位置加成（从该子一方视角）
func positionalBonus(kind xiangqi.Kind, side xiangqi.Side, row, col int) int {
	t, ok := positionTables[kind]
	if !ok {
		return 0
	}
	if side == xiangqi.Black {
		row = xiangqi.Rows - 1 - row
	}
	return t[row][col]
}

// 单个棋子的分值：子力 + 位置
func pieceScore(pc *xiangqi.Piece) int {
	return xiangqi.PieceValue(pc.Kind) + positionalBonus(pc.Kind, pc.Side, pc.Row, pc.Col)
}

// Evaluate 从 perspective 一方看局面：己方子力与位置分之和减去对方的。
// 纯函数，Evaluate(p, Red) == -Evaluate(p, Black)。
func Evaluate(pos *xiangqi.Position, perspective xiangqi.Side) int {
	score := 0
	for r := 0; r < xiangqi.Rows; r++ {
		for c := 0; c < xiangqi.Cols; c++ {
			pc := pos.Board.At(r, c)
			if pc == nil {
				continue
			}
			if pc.Side == perspective {
				score += pieceScore(pc)
			} else {
				score -= pieceScore(pc)
			}
		}
	}
	return score
}
