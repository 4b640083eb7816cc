package xiangqi

import "fmt"

// Undo 记录一步棋撤销所需的全部信息，MakeMove/UndoMove 必须严格互逆。
type Undo struct {
	Move     Move
	Moved    *Piece
	Captured *Piece // 没吃子时为 nil
	PrevSide Side
	PrevHash uint64
}

// MakeMove 在原地走子：源格摘下，目标格挂上，更新棋子坐标，换边。
// 调用方保证 m 的源格有子（由走法生成或 Play 校验）。
func (p *Position) MakeMove(m Move) Undo {
	b := &p.Board
	moved := b.At(m.FromRow, m.FromCol)
	if moved == nil {
		panic(fmt.Sprintf("xiangqi: MakeMove %s from empty square", m))
	}
	u := Undo{
		Move:     m,
		Moved:    moved,
		Captured: b.At(m.ToRow, m.ToCol),
		PrevSide: p.SideToMove,
		PrevHash: p.Hash,
	}

	h := p.Hash
	h ^= pieceHashKey(moved, m.FromRow, m.FromCol)
	if u.Captured != nil {
		h ^= pieceHashKey(u.Captured, m.ToRow, m.ToCol)
	}
	h ^= pieceHashKey(moved, m.ToRow, m.ToCol)
	h ^= zobristSide

	b.cells[m.FromRow][m.FromCol] = nil
	b.cells[m.ToRow][m.ToCol] = moved
	moved.Row, moved.Col = m.ToRow, m.ToCol

	p.SideToMove = p.SideToMove.Opponent()
	p.Hash = h
	return u
}

// UndoMove 恢复 MakeMove 之前的占位、坐标、走子方和哈希。
func (p *Position) UndoMove(u Undo) {
	b := &p.Board
	m := u.Move
	b.cells[m.FromRow][m.FromCol] = u.Moved
	b.cells[m.ToRow][m.ToCol] = u.Captured
	u.Moved.Row, u.Moved.Col = m.FromRow, m.FromCol
	p.SideToMove = u.PrevSide
	p.Hash = u.PrevHash
}

// Play 校验并执行一步外部传入的棋（人类走子）。
// 任何错误都不会改动局面。
func (p *Position) Play(m Move) (Undo, error) {
	if !onBoard(m.FromRow, m.FromCol) || !onBoard(m.ToRow, m.ToCol) {
		return Undo{}, ErrOutOfBoard
	}
	pc := p.Board.At(m.FromRow, m.FromCol)
	if pc == nil {
		return Undo{}, ErrNoPiece
	}
	if pc.Side != p.SideToMove {
		return Undo{}, ErrNotYourTurn
	}
	if !p.Board.IsLegalDestination(pc, m.ToRow, m.ToCol) {
		return Undo{}, fmt.Errorf("%w: %s %s", ErrIllegalMove, pc.Kind, m)
	}
	u := p.MakeMove(m)
	if p.Board.KingsFacing() {
		p.UndoMove(u)
		return Undo{}, fmt.Errorf("%w: %s", ErrFlyingGenerals, m)
	}
	return u, nil
}
