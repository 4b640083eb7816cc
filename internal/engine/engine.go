package engine

import (
	"context"
	"time"

	"xiangqi/internal/xiangqi"
)

const (
	// 一个足够大的值，当成正负无穷
	scoreInf = 1_000_000_000

	// MateScore 无棋可走的一方判负的分数，远大于任何子力差
	MateScore = 10_000_000

	// 每隔多少个节点检查一次取消/超时
	pollInterval = 2048
)

// Engine 独占一次搜索的局面，不能并发使用；后台并发由调用方各自建 Engine。
type Engine struct {
	tt    map[uint64]ttEntry
	nodes int64

	pos      *xiangqi.Position
	mySide   xiangqi.Side
	ctx      context.Context
	deadline time.Time
	stopped  bool
}

func NewEngine() *Engine {
	return &Engine{
		tt: make(map[uint64]ttEntry, 1<<14),
	}
}

// Reset 清空走法提示表，换新对局时调用。
func (e *Engine) Reset() {
	e.tt = make(map[uint64]ttEntry, 1<<14)
}

func (e *Engine) Nodes() int64 {
	return e.nodes
}

func (e *Engine) begin(ctx context.Context, pos *xiangqi.Position, deadline time.Time) {
	if ctx == nil {
		ctx = context.Background()
	}
	e.pos = pos
	e.mySide = pos.SideToMove
	e.ctx = ctx
	e.deadline = deadline
	e.stopped = false
	e.nodes = 0
}

func (e *Engine) end() {
	e.pos = nil
	e.ctx = nil
}

// 是否该停下：ctx 取消或超过 deadline
func (e *Engine) shouldStop() bool {
	if e.stopped {
		return true
	}
	if e.nodes%pollInterval != 0 {
		return false
	}
	if e.ctx.Err() != nil || (!e.deadline.IsZero() && time.Now().After(e.deadline)) {
		e.stopped = true
	}
	return e.stopped
}

// 迭代之间的检查，不看节点数
func (e *Engine) outOfTime() bool {
	if e.ctx.Err() != nil {
		return true
	}
	return !e.deadline.IsZero() && time.Now().After(e.deadline)
}

// 没有着法时的终局分：走子方是己方则大负，否则大胜；越近越极端
func (e *Engine) noMoveScore(side xiangqi.Side, ply int) int {
	if side == e.mySide {
		return -MateScore + ply
	}
	return MateScore - ply
}
