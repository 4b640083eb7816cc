package pool

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"xiangqi/internal/engine"
	"xiangqi/internal/xiangqi"
)

var ErrBusy = errors.New("search pool busy")

// Pool 把搜索放到后台 goroutine 上跑，并限制同时进行的搜索数。
// 引擎本身是同步的；每次搜索用一份克隆的局面和一个新的 Engine。
type Pool struct {
	sem       *semaphore.Weighted
	size      int64
	running   atomic.Int64
	maxWait   time.Duration
	newEngine func() *engine.Engine
}

func New(size int, maxWait time.Duration) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		sem:       semaphore.NewWeighted(int64(size)),
		size:      int64(size),
		maxWait:   maxWait,
		newEngine: engine.NewEngine,
	}
}

// Running 当前正在进行的搜索数
func (p *Pool) Running() int64 {
	return p.running.Load()
}

func (p *Pool) Size() int64 {
	return p.size
}

// Run 等一个空位（最多 maxWait），然后在后台搜索 pos 的克隆。
// ctx 取消时立即返回 ctx.Err()，后台搜索会在下一次检查点停下。
func (p *Pool) Run(ctx context.Context, pos *xiangqi.Position, cfg engine.SearchConfig) (engine.SearchResult, error) {
	acquireCtx := ctx
	if p.maxWait > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, p.maxWait)
		defer cancel()
	}
	if err := p.sem.Acquire(acquireCtx, 1); err != nil {
		if ctx.Err() != nil {
			return engine.SearchResult{}, ctx.Err()
		}
		return engine.SearchResult{}, ErrBusy
	}

	logger := zerolog.Ctx(ctx)
	snapshot := pos.Clone()
	done := make(chan engine.SearchResult, 1)
	p.running.Add(1)
	go func() {
		defer p.sem.Release(1)
		defer p.running.Add(-1)
		done <- p.newEngine().Search(ctx, snapshot, cfg)
	}()

	select {
	case res := <-done:
		logger.Info().
			Str("move", res.BestMove.String()).
			Int("score", res.Score).
			Int("depth", res.Depth).
			Int64("nodes", res.Nodes).
			Dur("took", res.TimeUsed).
			Msg("search finished")
		return res, nil
	case <-ctx.Done():
		return engine.SearchResult{}, ctx.Err()
	}
}
