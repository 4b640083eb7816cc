package xiangqi

// Square 是一个棋盘坐标。
type Square struct {
	Row, Col int
}

var (
	orthoDirs    = [4][2]int{{-1, 0}, {+1, 0}, {0, -1}, {0, +1}}
	diagDirs     = [4][2]int{{-1, -1}, {-1, +1}, {+1, -1}, {+1, +1}}
	horseOffsets = [8][2]int{
		{-2, -1}, {-2, +1}, {-1, -2}, {-1, +2},
		{+1, -2}, {+1, +2}, {+2, -1}, {+2, +1},
	}
)

// CandidateDestinations 按兵种给出几何上可能的落点，只过滤出界，不判断规则。
func CandidateDestinations(p *Piece) []Square {
	return appendCandidates(nil, p)
}

func appendCandidates(out []Square, p *Piece) []Square {
	if p == nil {
		return out
	}
	add := func(r, c int) {
		if onBoard(r, c) {
			out = append(out, Square{r, c})
		}
	}
	switch p.Kind {
	case King, Advisor:
		// 3x3 邻域
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				add(p.Row+dr, p.Col+dc)
			}
		}
	case Elephant:
		for _, d := range diagDirs {
			add(p.Row+2*d[0], p.Col+2*d[1])
		}
	case Horse:
		for _, d := range horseOffsets {
			add(p.Row+d[0], p.Col+d[1])
		}
	case Pawn:
		for _, d := range orthoDirs {
			add(p.Row+d[0], p.Col+d[1])
		}
	case Rook, Cannon:
		// 整行整列
		for c := 0; c < Cols; c++ {
			if c != p.Col {
				out = append(out, Square{p.Row, c})
			}
		}
		for r := 0; r < Rows; r++ {
			if r != p.Row {
				out = append(out, Square{r, p.Col})
			}
		}
	}
	return out
}
