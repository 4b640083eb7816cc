package xiangqi

import (
	"strings"
)

const (
	Rows = 10
	Cols = 9

	// 河界：黑方占 0..4 行，红方占 5..9 行
	RiverRow = 5

	palaceColMin = 3
	palaceColMax = 5
)

type Board struct {
	cells [Rows][Cols]*Piece
}

func onBoard(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}

// 是否在本方九宫
func inPalace(side Side, row, col int) bool {
	if col < palaceColMin || col > palaceColMax {
		return false
	}
	switch side {
	case Black:
		return row >= 0 && row <= 2
	case Red:
		return row >= Rows-3 && row <= Rows-1
	}
	return false
}

// 是否仍在本方半场（相不能过河）
func onOwnSide(side Side, row int) bool {
	switch side {
	case Red:
		return row >= RiverRow
	case Black:
		return row < RiverRow
	}
	return false
}

// 兵的前进方向：红向上(-1)，黑向下(+1)
func forward(side Side) int {
	if side == Red {
		return -1
	}
	if side == Black {
		return +1
	}
	return 0
}

func (b *Board) At(row, col int) *Piece {
	if !onBoard(row, col) {
		return nil
	}
	return b.cells[row][col]
}

// Place 把棋子放到它自己的 Row/Col 上。
func (b *Board) Place(p *Piece) error {
	if p == nil {
		return nil
	}
	if !onBoard(p.Row, p.Col) {
		return ErrOutOfBoard
	}
	if b.cells[p.Row][p.Col] != nil {
		return ErrOccupied
	}
	b.cells[p.Row][p.Col] = p
	return nil
}

// Remove 取下并返回 (row, col) 上的棋子。
func (b *Board) Remove(row, col int) *Piece {
	if !onBoard(row, col) {
		return nil
	}
	p := b.cells[row][col]
	b.cells[row][col] = nil
	return p
}

// Pieces 按行列顺序返回某一方的所有棋子。
func (b *Board) Pieces(side Side) []*Piece {
	out := make([]*Piece, 0, 16)
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if p := b.cells[r][c]; p != nil && p.Side == side {
				out = append(out, p)
			}
		}
	}
	return out
}

func (b *Board) Count() int {
	n := 0
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if b.cells[r][c] != nil {
				n++
			}
		}
	}
	return n
}

func (b *Board) KingOf(side Side) *Piece {
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if p := b.cells[r][c]; p != nil && p.Kind == King && p.Side == side {
				return p
			}
		}
	}
	return nil
}

// Clone 深拷贝：新棋盘持有新的 *Piece。
func (b *Board) Clone() Board {
	var nb Board
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if p := b.cells[r][c]; p != nil {
				cp := *p
				nb.cells[r][c] = &cp
			}
		}
	}
	return nb
}

// Equal 按内容逐格比较（身份、坐标）。
func (b *Board) Equal(o *Board) bool {
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			p, q := b.cells[r][c], o.cells[r][c]
			if (p == nil) != (q == nil) {
				return false
			}
			if p != nil && *p != *q {
				return false
			}
		}
	}
	return true
}

// Same 逐格比较指针，要求是同一批棋子实例。
func (b *Board) Same(o *Board) bool {
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if b.cells[r][c] != o.cells[r][c] {
				return false
			}
		}
	}
	return true
}

func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		sb.WriteByte(byte('0' + Rows - 1 - r))
		sb.WriteByte(' ')
		for c := 0; c < Cols; c++ {
			sb.WriteRune(pieceToChar(b.cells[r][c]))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  abcdefghi\n")
	return sb.String()
}

// 标准开局：大写红方，小写黑方；第 0 行是黑方底线
const initialBoardString = `rnbakabnr
.........
.c.....c.
p.p.p.p.p
.........
.........
P.P.P.P.P
.C.....C.
.........
RNBAKABNR`

func parseInitialBoard() Board {
	var b Board
	lines := strings.Split(initialBoardString, "\n")
	if len(lines) != Rows {
		panic("initialBoardString 行数不为 10")
	}
	for r, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) != Cols {
			panic("initialBoardString 列数不为 9")
		}
		for c, ch := range line {
			if ch == '.' {
				continue
			}
			side, kind, ok := charToPiece(ch)
			if !ok {
				panic("unknown piece letter: " + string(ch))
			}
			b.cells[r][c] = NewPiece(side, kind, r, c)
		}
	}
	return b
}

func NewInitialPosition() *Position {
	pos := &Position{
		Board:      parseInitialBoard(),
		SideToMove: Red, // 红先
	}
	pos.Hash = pos.CalculateHash()
	return pos
}

// NewEmptyPosition 用于摆残局。
func NewEmptyPosition(stm Side) *Position {
	pos := &Position{SideToMove: stm}
	pos.Hash = pos.CalculateHash()
	return pos
}

// Put 摆一个子并同步哈希。
func (p *Position) Put(side Side, kind Kind, row, col int) (*Piece, error) {
	pc := NewPiece(side, kind, row, col)
	if err := p.Board.Place(pc); err != nil {
		return nil, err
	}
	p.Hash ^= pieceHashKey(pc, row, col)
	return pc, nil
}

// Clone 给后台搜索用：完全独立的一份局面。
func (p *Position) Clone() *Position {
	return &Position{
		Board:      p.Board.Clone(),
		SideToMove: p.SideToMove,
		Hash:       p.Hash,
	}
}

func (p *Position) KingExists(side Side) bool {
	return p.Board.KingOf(side) != nil
}
