package xiangqi

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ObstacleCount 统计两点之间（不含两端）的棋子数；不在同一行/列时返回 0。
func (b *Board) ObstacleCount(r1, c1, r2, c2 int) int {
	n := 0
	switch {
	case r1 == r2:
		lo, hi := c1, c2
		if lo > hi {
			lo, hi = hi, lo
		}
		for c := lo + 1; c < hi; c++ {
			if b.cells[r1][c] != nil {
				n++
			}
		}
	case c1 == c2:
		lo, hi := r1, r2
		if lo > hi {
			lo, hi = hi, lo
		}
		for r := lo + 1; r < hi; r++ {
			if b.cells[r][c1] != nil {
				n++
			}
		}
	}
	return n
}

// IsLegalDestination 判断棋子能否按本兵种规则走到 (toRow, toCol)。
// 不考虑王对脸，也不考虑走后自己是否被将军。
func (b *Board) IsLegalDestination(p *Piece, toRow, toCol int) bool {
	if p == nil || !onBoard(toRow, toCol) {
		return false
	}
	if p.Row == toRow && p.Col == toCol {
		return false
	}
	target := b.cells[toRow][toCol]
	if target != nil && target.Side == p.Side {
		return false
	}

	dr, dc := toRow-p.Row, toCol-p.Col
	adr, adc := abs(dr), abs(dc)

	switch p.Kind {
	case King:
		return adr+adc == 1 && inPalace(p.Side, toRow, toCol)

	case Advisor:
		return adr == 1 && adc == 1 && inPalace(p.Side, toRow, toCol)

	case Elephant:
		if adr != 2 || adc != 2 || !onOwnSide(p.Side, toRow) {
			return false
		}
		// 塞象眼
		return b.cells[p.Row+dr/2][p.Col+dc/2] == nil

	case Horse:
		switch {
		case adr == 2 && adc == 1:
			return b.cells[p.Row+dr/2][p.Col] == nil // 蹩马腿
		case adr == 1 && adc == 2:
			return b.cells[p.Row][p.Col+dc/2] == nil
		}
		return false

	case Rook:
		if dr != 0 && dc != 0 {
			return false
		}
		return b.ObstacleCount(p.Row, p.Col, toRow, toCol) == 0

	case Cannon:
		if dr != 0 && dc != 0 {
			return false
		}
		n := b.ObstacleCount(p.Row, p.Col, toRow, toCol)
		if target == nil {
			return n == 0
		}
		return n == 1 // 隔一子（炮架）吃

	case Pawn:
		if adr+adc != 1 {
			return false
		}
		if dr != 0 {
			return dr == forward(p.Side)
		}
		// 横走只允许过河以后
		return !onOwnSide(p.Side, p.Row)
	}
	return false
}
