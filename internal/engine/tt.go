package engine

import "xiangqi/internal/xiangqi"

const ttMaxEntries = 1_000_000

// 提示表条目：只记录上一轮在该局面找到的最佳着法，用来排序，不用来截断
type ttEntry struct {
	Key   uint64
	Depth int
	Move  xiangqi.Move
}

func (e *Engine) storeTT(key uint64, depth int, mv xiangqi.Move) {
	if len(e.tt) > ttMaxEntries {
		e.tt = make(map[uint64]ttEntry, 1<<14)
	}
	old, ok := e.tt[key]
	if !ok || depth >= old.Depth {
		e.tt[key] = ttEntry{Key: key, Depth: depth, Move: mv}
	}
}

func (e *Engine) probeTT(key uint64) (xiangqi.Move, bool) {
	entry, ok := e.tt[key]
	if !ok {
		return xiangqi.NoMove, false
	}
	return entry.Move, true
}

// 把提示着法提到最前面，其余保持原顺序
func promote(moves []xiangqi.Move, hint xiangqi.Move) {
	for i := range moves {
		if moves[i].SameSquares(hint) {
			mv := moves[i]
			copy(moves[1:i+1], moves[:i])
			moves[0] = mv
			return
		}
	}
}

// 沿提示表走出主变，最多 depth 步；每步都确认仍是合法着法
func (e *Engine) principalVariation(pos *xiangqi.Position, first xiangqi.Move, depth int) []xiangqi.Move {
	pv := []xiangqi.Move{first}
	undos := []xiangqi.Undo{pos.MakeMove(first)}
	for len(pv) < depth {
		mv, ok := e.probeTT(pos.Hash)
		if !ok || !pos.IsLegal(mv) {
			break
		}
		pv = append(pv, mv)
		undos = append(undos, pos.MakeMove(mv))
	}
	for i := len(undos) - 1; i >= 0; i-- {
		pos.UndoMove(undos[i])
	}
	return pv
}
