package xiangqi

import "sort"

// 基础子力，吃子排序和估值共用
var pieceValue = [numKinds]int{
	KindNone: 0,
	King:     100_000,
	Rook:     600,
	Cannon:   300,
	Horse:    270,
	Elephant: 250,
	Advisor:  250,
	Pawn:     100,
}

func PieceValue(k Kind) int {
	if k < 0 || int(k) >= numKinds {
		return 0
	}
	return pieceValue[k]
}

// GenerateLegalMoves 生成 side 的全部走法，按吃子价值从高到低排序。
// 每个候选都在棋盘上试走一次检查王对脸，然后立即撤销。
// 不检查走后己方是否被将军。
func (p *Position) GenerateLegalMoves(side Side) []Move {
	b := &p.Board
	pieces := b.Pieces(side)
	out := make([]Move, 0, 48)
	var cands []Square

	for _, pc := range pieces {
		cands = appendCandidates(cands[:0], pc)
		fromRow, fromCol := pc.Row, pc.Col
		for _, sq := range cands {
			if !b.IsLegalDestination(pc, sq.Row, sq.Col) {
				continue
			}
			mv := NewMove(fromRow, fromCol, sq.Row, sq.Col)
			if target := b.cells[sq.Row][sq.Col]; target != nil {
				mv.Score = PieceValue(target.Kind)
			}
			u := p.MakeMove(mv)
			facing := b.KingsFacing()
			p.UndoMove(u)
			if facing {
				continue
			}
			out = append(out, mv)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// LegalMoves 当前走子方的走法
func (p *Position) LegalMoves() []Move {
	return p.GenerateLegalMoves(p.SideToMove)
}

// IsLegal 判断 m 是否在当前走子方的合法走法里。
func (p *Position) IsLegal(m Move) bool {
	for _, lm := range p.LegalMoves() {
		if lm.SameSquares(m) {
			return true
		}
	}
	return false
}

// Perft 统计 depth 层的叶子数，用来测走法生成。
func Perft(p *Position, depth int) int64 {
	if depth <= 0 {
		return 1
	}
	moves := p.LegalMoves()
	if depth == 1 {
		return int64(len(moves))
	}
	var n int64
	for _, mv := range moves {
		u := p.MakeMove(mv)
		n += Perft(p, depth-1)
		p.UndoMove(u)
	}
	return n
}
