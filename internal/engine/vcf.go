package engine

import (
	"sort"

	"xiangqi/internal/xiangqi"
)

const (
	vcfDepthCap         = 16
	vcfDefaultDepth     = 6
	vcfNodeBudgetBase   = 32000
	vcfNodeBudgetPerPly = 8000
)

// 攻守两种节点共用一张表，用不同的盐区分
const (
	vcfModeAttack uint64 = 0xA5A5A5A5A5A5A5A5
	vcfModeDefend uint64 = 0x5A5A5A5A5A5A5A5A
)

type vcfTTEntry struct {
	Depth  int
	Result bool
	Move   xiangqi.Move
}

type vcfContext struct {
	pos        *xiangqi.Position
	tt         map[uint64]vcfTTEntry
	inPath     map[uint64]bool
	nodes      int
	nodeBudget int
}

// VCFResult 连将搜索结果
type VCFResult struct {
	CanWin bool
	Move   xiangqi.Move
	Nodes  int
}

// VCFSearch 找连将杀：走子方每一步都必须将军（或直接吃王），对方怎么应都逃不掉。
// maxDepth 按半步计。节点数有上限，找不到不代表没有。pos 返回时不变。
func VCFSearch(pos *xiangqi.Position, maxDepth int) VCFResult {
	if maxDepth <= 0 {
		maxDepth = vcfDefaultDepth
	}
	if maxDepth > vcfDepthCap {
		maxDepth = vcfDepthCap
	}
	ctx := &vcfContext{
		pos:        pos,
		tt:         make(map[uint64]vcfTTEntry, 1<<12),
		inPath:     make(map[uint64]bool, 64),
		nodeBudget: vcfNodeBudgetBase + maxDepth*vcfNodeBudgetPerPly,
	}

	// 迭代加深，每次多一个来回
	for d := 2; d <= maxDepth; d += 2 {
		if mv, ok := ctx.attack(d, true); ok {
			return VCFResult{CanWin: true, Move: mv, Nodes: ctx.nodes}
		}
		if ctx.reachNodeBudget() {
			break
		}
	}
	return VCFResult{Move: xiangqi.NoMove, Nodes: ctx.nodes}
}

// CanCaptureKingNext 走子方这一步能不能直接吃王
func CanCaptureKingNext(pos *xiangqi.Position) bool {
	_, ok := kingCapture(pos, pos.GenerateLegalMoves(pos.SideToMove))
	return ok
}

func kingCapture(pos *xiangqi.Position, moves []xiangqi.Move) (xiangqi.Move, bool) {
	for _, mv := range moves {
		if t := pos.Board.At(mv.ToRow, mv.ToCol); t != nil && t.Kind == xiangqi.King {
			return mv, true
		}
	}
	return xiangqi.NoMove, false
}

// orderVCFMoves 置换表着法最先，其次吃子，再按子力：车 > 炮 > 马 > 兵
func (ctx *vcfContext) orderVCFMoves(moves []xiangqi.Move) {
	pos := ctx.pos
	hint := xiangqi.NoMove
	if entry, ok := ctx.tt[pos.Hash^vcfModeAttack]; ok {
		hint = entry.Move
	}
	for i := range moves {
		mv := &moves[i]
		if mv.SameSquares(hint) {
			mv.Score = 1000
			continue
		}
		score := 0
		if t := pos.Board.At(mv.ToRow, mv.ToCol); t != nil {
			score = 100 + int(t.Kind)
		}
		switch pos.Board.At(mv.FromRow, mv.FromCol).Kind {
		case xiangqi.Rook:
			score += 80
		case xiangqi.Cannon:
			score += 60
		case xiangqi.Horse:
			score += 40
		case xiangqi.Pawn:
			score += 20
		}
		mv.Score = score
	}
	sort.SliceStable(moves, func(i, j int) bool { return moves[i].Score > moves[j].Score })
}

// attack 攻方节点：能否在 depth 半步内逼杀。depth 用完时仍检查能否直接吃王。
func (ctx *vcfContext) attack(depth int, root bool) (xiangqi.Move, bool) {
	pos := ctx.pos
	moves := pos.GenerateLegalMoves(pos.SideToMove)
	if mv, ok := kingCapture(pos, moves); ok {
		return mv, true
	}
	if depth <= 0 || ctx.reachNodeBudget() {
		return xiangqi.NoMove, false
	}
	key := pos.Hash ^ vcfModeAttack
	if !root {
		if ctx.inPath[key] {
			return xiangqi.NoMove, false
		}
		if entry, ok := ctx.tt[key]; ok && entry.Depth >= depth {
			return entry.Move, entry.Result
		}
	}
	ctx.inPath[key] = true
	defer delete(ctx.inPath, key)

	ctx.orderVCFMoves(moves)
	result, best := false, xiangqi.NoMove
	for _, mv := range moves {
		u := pos.MakeMove(mv)
		// 攻方必须将军
		if pos.InCheck(pos.SideToMove) && !ctx.defend(depth-1) {
			result, best = true, mv
		}
		pos.UndoMove(u)
		if result {
			break
		}
	}
	ctx.tt[key] = vcfTTEntry{Depth: depth, Result: result, Move: best}
	return best, result
}

// defend 守方节点：只要有一步应法让攻方逼不死就算逃脱；无棋可走即被杀。
func (ctx *vcfContext) defend(depth int) bool {
	pos := ctx.pos
	if ctx.reachNodeBudget() {
		return true
	}
	key := pos.Hash ^ vcfModeDefend
	if ctx.inPath[key] {
		return true
	}
	if entry, ok := ctx.tt[key]; ok && entry.Depth >= depth {
		return entry.Result
	}
	ctx.inPath[key] = true
	defer delete(ctx.inPath, key)

	result, best := false, xiangqi.NoMove
	for _, mv := range pos.GenerateLegalMoves(pos.SideToMove) {
		u := pos.MakeMove(mv)
		_, forced := ctx.attack(depth-1, false)
		pos.UndoMove(u)
		if !forced {
			result, best = true, mv
			break
		}
	}
	ctx.tt[key] = vcfTTEntry{Depth: depth, Result: result, Move: best}
	return result
}

func (ctx *vcfContext) reachNodeBudget() bool {
	ctx.nodes++
	return ctx.nodes > ctx.nodeBudget
}
