package xiangqi

// KingsFacing 两王同列且中间无子 -> 王对脸，非法
func (b *Board) KingsFacing() bool {
	red := b.KingOf(Red)
	black := b.KingOf(Black)
	if red == nil || black == nil {
		// 有一方王已经没了：不存在“对脸”问题
		return false
	}
	if red.Col != black.Col {
		return false
	}
	return b.ObstacleCount(red.Row, red.Col, black.Row, black.Col) == 0
}

// IsAttacked 判断 (row, col) 是否被 bySide 的任一棋子按走法规则够到。
func (b *Board) IsAttacked(row, col int, bySide Side) bool {
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			p := b.cells[r][c]
			if p == nil || p.Side != bySide {
				continue
			}
			// 士、象不过河，不可能攻到对方九宫
			if p.Kind == Advisor || p.Kind == Elephant {
				continue
			}
			if b.IsLegalDestination(p, row, col) {
				return true
			}
		}
	}
	return false
}

// InCheck 判断 side 的王是否被将军。只用于报告局面状态，走法生成不依赖它。
func (p *Position) InCheck(side Side) bool {
	k := p.Board.KingOf(side)
	if k == nil {
		return false
	}
	return p.Board.IsAttacked(k.Row, k.Col, side.Opponent())
}
