package engine

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"xiangqi/internal/xiangqi"
)

// 搜索配置
type SearchConfig struct {
	MaxDepth  int           // 最大搜索深度（ply）
	TimeLimit time.Duration // 搜索时间上限（0 表示不限制）

	// OnDepth 每完成一层迭代调用一次（可为 nil）
	OnDepth func(DepthReport)
}

// DepthReport 某一层迭代完成时的结果
type DepthReport struct {
	Depth   int
	Move    xiangqi.Move
	Score   int
	Nodes   int64
	Elapsed time.Duration
}

// 搜索结果
type SearchResult struct {
	BestMove xiangqi.Move   // 最佳着法；Found 为 false 时是 xiangqi.NoMove
	Found    bool           // 走子方是否有棋可走
	Score    int            // 从走子方视角的评估分
	Depth    int            // 最后完成的深度
	Nodes    int64          // 节点数
	TimeUsed time.Duration  // 花费时间
	PV       []xiangqi.Move // 主变
}

const defaultDepth = 3

// 根节点着法及上一轮的分数
type rootMove struct {
	move  xiangqi.Move
	score int
}

// Search 以 pos.SideToMove 为“己方”做迭代加深的 alpha-beta 搜索。
// pos 在搜索中被原地走子/撤销，返回时与进入时完全一致；搜索期间调用方不得改动它。
// ctx 取消或超时后，返回最后一层完整迭代的结果。
func (e *Engine) Search(ctx context.Context, pos *xiangqi.Position, cfg SearchConfig) SearchResult {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = defaultDepth
	}
	start := time.Now()
	deadline := time.Time{}
	if cfg.TimeLimit > 0 {
		deadline = start.Add(cfg.TimeLimit)
	}
	e.begin(ctx, pos, deadline)
	defer e.end()

	legal := pos.GenerateLegalMoves(pos.SideToMove)
	if len(legal) == 0 {
		return SearchResult{
			BestMove: xiangqi.NoMove,
			Score:    e.noMoveScore(pos.SideToMove, 0),
			TimeUsed: time.Since(start),
		}
	}

	root := make([]rootMove, len(legal))
	for i, mv := range legal {
		root[i] = rootMove{move: mv}
	}
	if hint, ok := e.probeTT(pos.Hash); ok {
		promoteRoot(root, hint)
	}

	// 兜底：哪怕第一层都没跑完，也给出排序后的第一手
	res := SearchResult{BestMove: legal[0], Found: true}
	var totalNodes int64

	for depth := 1; depth <= cfg.MaxDepth; depth++ {
		if e.outOfTime() {
			break
		}
		best, score, ok := e.searchRoot(root, depth)
		totalNodes += e.nodes
		e.nodes = 0
		if !ok {
			log.Debug().Int("depth", depth).Msg("search iteration aborted")
			break
		}
		res.BestMove = root[best].move
		res.Score = score
		res.Depth = depth
		e.storeTT(pos.Hash, depth, res.BestMove)

		// 下一轮按本轮分数排序，最佳着法放最前
		bestMove := root[best]
		root = append(root[:best], root[best+1:]...)
		sort.SliceStable(root, func(i, j int) bool { return root[i].score > root[j].score })
		root = append([]rootMove{bestMove}, root...)

		log.Debug().
			Int("depth", depth).
			Str("move", res.BestMove.String()).
			Int("score", score).
			Int64("nodes", totalNodes).
			Msg("search iteration done")
		if cfg.OnDepth != nil {
			cfg.OnDepth(DepthReport{
				Depth:   depth,
				Move:    res.BestMove,
				Score:   score,
				Nodes:   totalNodes,
				Elapsed: time.Since(start),
			})
		}
		// 已经找到最快的杀棋，不必再加深
		if score >= MateScore-depth {
			break
		}
	}

	res.Nodes = totalNodes
	res.TimeUsed = time.Since(start)
	res.PV = e.principalVariation(pos, res.BestMove, max(res.Depth, 1))
	return res
}

// BestMove 为 side 找一步棋；side 与局面的走子方不同时临时改过来，返回前恢复。
func (e *Engine) BestMove(ctx context.Context, pos *xiangqi.Position, depth int, side xiangqi.Side) (xiangqi.Move, bool) {
	if pos.SideToMove != side {
		prevSide, prevHash := pos.SideToMove, pos.Hash
		pos.SideToMove = side
		pos.Hash = pos.CalculateHash()
		defer func() {
			pos.SideToMove, pos.Hash = prevSide, prevHash
		}()
	}
	res := e.Search(ctx, pos, SearchConfig{MaxDepth: depth})
	return res.BestMove, res.Found
}

// SearchFixedDepth 只跑一层 depth 的 alpha-beta，根节点保持走法生成的顺序。
func (e *Engine) SearchFixedDepth(pos *xiangqi.Position, depth int) (xiangqi.Move, int) {
	e.begin(context.Background(), pos, time.Time{})
	defer e.end()

	legal := pos.GenerateLegalMoves(pos.SideToMove)
	if len(legal) == 0 {
		return xiangqi.NoMove, e.noMoveScore(pos.SideToMove, 0)
	}
	if depth <= 0 {
		return legal[0], Evaluate(pos, e.mySide)
	}
	root := make([]rootMove, len(legal))
	for i, mv := range legal {
		root[i] = rootMove{move: mv}
	}
	best, score, _ := e.searchRoot(root, depth)
	return root[best].move, score
}

// 根节点：己方取极大。每个着法的分数写回 root 供下一轮排序。
// ok 为 false 表示中途被取消，本轮结果作废。
func (e *Engine) searchRoot(root []rootMove, depth int) (best int, bestScore int, ok bool) {
	pos := e.pos
	alpha, beta := -scoreInf, scoreInf
	bestScore = -scoreInf
	for i := range root {
		u := pos.MakeMove(root[i].move)
		score := e.alphaBeta(depth-1, 1, alpha, beta, false)
		pos.UndoMove(u)
		if e.stopped {
			return 0, 0, false
		}
		root[i].score = score
		if score > bestScore {
			bestScore = score
			best = i
		}
		if bestScore > alpha {
			alpha = bestScore
		}
	}
	return best, bestScore, true
}

// 内部递归：标准 alpha-beta，maximizing 为 true 时是己方走。
// 每个 MakeMove 都在同一层与 UndoMove 配对，截断时也不例外。
func (e *Engine) alphaBeta(depth, ply int, alpha, beta int, maximizing bool) int {
	e.nodes++
	if e.shouldStop() {
		return 0
	}
	pos := e.pos
	if depth <= 0 {
		return Evaluate(pos, e.mySide)
	}

	side := pos.SideToMove
	moves := pos.GenerateLegalMoves(side)
	if len(moves) == 0 {
		return e.noMoveScore(side, ply)
	}
	if hint, ok := e.probeTT(pos.Hash); ok {
		promote(moves, hint)
	}

	var bestScore int
	bestIdx := -1
	if maximizing {
		bestScore = -scoreInf
		for i := range moves {
			u := pos.MakeMove(moves[i])
			score := e.alphaBeta(depth-1, ply+1, alpha, beta, false)
			pos.UndoMove(u)
			if e.stopped {
				return 0
			}
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
			if bestScore > alpha {
				alpha = bestScore
			}
			if beta <= alpha {
				break
			}
		}
	} else {
		bestScore = scoreInf
		for i := range moves {
			u := pos.MakeMove(moves[i])
			score := e.alphaBeta(depth-1, ply+1, alpha, beta, true)
			pos.UndoMove(u)
			if e.stopped {
				return 0
			}
			if score < bestScore {
				bestScore = score
				bestIdx = i
			}
			if bestScore < beta {
				beta = bestScore
			}
			if beta <= alpha {
				break
			}
		}
	}

	if bestIdx >= 0 {
		e.storeTT(pos.Hash, depth, moves[bestIdx])
	}
	return bestScore
}

func promoteRoot(root []rootMove, hint xiangqi.Move) {
	for i := range root {
		if root[i].move.SameSquares(hint) {
			rm := root[i]
			copy(root[1:i+1], root[:i])
			root[0] = rm
			return
		}
	}
}
