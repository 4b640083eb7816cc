package xiangqi

import (
	"fmt"
	"strings"
)

type Side int8

const (
	NoSide Side = -1
	Red    Side = 0
	Black  Side = 1
)

func (s Side) Opponent() Side {
	switch s {
	case Red:
		return Black
	case Black:
		return Red
	}
	return NoSide
}

func (s Side) String() string {
	switch s {
	case Red:
		return "red"
	case Black:
		return "black"
	}
	return "none"
}

// Kind 是七种棋子的封闭集合，零值 KindNone 只用于表示“无”。
type Kind int8

const (
	KindNone Kind = iota
	King          // 帅 / 将
	Advisor       // 仕 / 士
	Elephant      // 相 / 象
	Horse         // 马
	Rook          // 车
	Cannon        // 炮
	Pawn          // 兵 / 卒

	numKinds = 8
)

var kindNames = [numKinds]string{"none", "king", "advisor", "elephant", "horse", "rook", "cannon", "pawn"}

func (k Kind) String() string {
	if k < 0 || int(k) >= numKinds {
		return fmt.Sprintf("kind(%d)", int8(k))
	}
	return kindNames[k]
}

// ParseKind 接受 String() 的输出或 FEN 字母（不分大小写）。
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k := King; k < numKinds; k++ {
		if kindNames[k] == s {
			return k, nil
		}
	}
	if r := []rune(s); len(r) == 1 {
		if k, ok := letterToKind[r[0]]; ok {
			return k, nil
		}
	}
	return KindNone, fmt.Errorf("%w: unknown piece kind %q", ErrInvalidFEN, s)
}

// Piece 的身份（Side/Kind）不变，Row/Col 随走子更新。
// 棋盘格子持有 *Piece，走子是指针的转移而不是拷贝。
type Piece struct {
	Side Side
	Kind Kind
	Row  int
	Col  int
}

func NewPiece(side Side, kind Kind, row, col int) *Piece {
	return &Piece{Side: side, Kind: kind, Row: row, Col: col}
}

func (p *Piece) String() string {
	if p == nil {
		return "."
	}
	return fmt.Sprintf("%s %s@%d,%d", p.Side, p.Kind, p.Row, p.Col)
}

type Move struct {
	FromRow int `json:"from_row"`
	FromCol int `json:"from_col"`
	ToRow   int `json:"to_row"`
	ToCol   int `json:"to_col"`
	Score   int `json:"-"` // 只用于排序
}

// NoMove 表示“没有可走的棋”。
var NoMove = Move{FromRow: -1, FromCol: -1, ToRow: -1, ToCol: -1}

func NewMove(fromRow, fromCol, toRow, toCol int) Move {
	return Move{FromRow: fromRow, FromCol: fromCol, ToRow: toRow, ToCol: toCol}
}

func (m Move) IsNone() bool {
	return m.FromRow < 0 || m.FromCol < 0 || m.ToRow < 0 || m.ToCol < 0
}

// SameSquares 比较起止格，忽略 Score。
func (m Move) SameSquares(o Move) bool {
	return m.FromRow == o.FromRow && m.FromCol == o.FromCol && m.ToRow == o.ToRow && m.ToCol == o.ToCol
}

// String 用 ICCS 记法：列 a..i，行从红方底线 0 数到 9。
func (m Move) String() string {
	if m.IsNone() {
		return "none"
	}
	return squareName(m.FromRow, m.FromCol) + squareName(m.ToRow, m.ToCol)
}

func squareName(row, col int) string {
	return fmt.Sprintf("%c%d", 'a'+col, Rows-1-row)
}

// ParseMove 解析 ICCS 记法，例如 "h2e2"。
func ParseMove(s string) (Move, error) {
	if len(s) != 4 {
		return NoMove, fmt.Errorf("%w: %q", ErrBadMoveText, s)
	}
	fc, fr := int(s[0]-'a'), Rows-1-int(s[1]-'0')
	tc, tr := int(s[2]-'a'), Rows-1-int(s[3]-'0')
	if !onBoard(fr, fc) || !onBoard(tr, tc) {
		return NoMove, fmt.Errorf("%w: %q", ErrBadMoveText, s)
	}
	return NewMove(fr, fc, tr, tc), nil
}

// Position = 棋盘 + 轮到谁走
type Position struct {
	Board      Board
	SideToMove Side
	Hash       uint64
}
