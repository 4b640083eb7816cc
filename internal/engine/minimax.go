package engine

import "xiangqi/internal/xiangqi"

// Minimax 不剪枝的完整极小极大搜索，着法顺序与 alpha-beta 相同（走法生成的顺序）。
// 只用于校验：同一局面同一深度下，它和 SearchFixedDepth 应给出相同的着法和分数。
func Minimax(pos *xiangqi.Position, depth int) (xiangqi.Move, int) {
	mySide := pos.SideToMove
	noMove := func(side xiangqi.Side, ply int) int {
		if side == mySide {
			return -MateScore + ply
		}
		return MateScore - ply
	}

	var rec func(depth, ply int) int
	rec = func(depth, ply int) int {
		if depth <= 0 {
			return Evaluate(pos, mySide)
		}
		side := pos.SideToMove
		moves := pos.GenerateLegalMoves(side)
		if len(moves) == 0 {
			return noMove(side, ply)
		}
		maximizing := side == mySide
		best := scoreInf
		if maximizing {
			best = -scoreInf
		}
		for _, mv := range moves {
			u := pos.MakeMove(mv)
			score := rec(depth-1, ply+1)
			pos.UndoMove(u)
			// 严格比较，与 alpha-beta 保留第一个最佳着法一致
			if maximizing && score > best || !maximizing && score < best {
				best = score
			}
		}
		return best
	}

	moves := pos.GenerateLegalMoves(mySide)
	if len(moves) == 0 {
		return xiangqi.NoMove, noMove(mySide, 0)
	}
	if depth <= 0 {
		return moves[0], Evaluate(pos, mySide)
	}
	bestMove, bestScore := xiangqi.NoMove, -scoreInf
	for _, mv := range moves {
		u := pos.MakeMove(mv)
		score := rec(depth-1, 1)
		pos.UndoMove(u)
		if score > bestScore {
			bestMove, bestScore = mv, score
		}
	}
	return bestMove, bestScore
}
