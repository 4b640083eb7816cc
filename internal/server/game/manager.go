package game

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"xiangqi/internal/xiangqi"
)

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrGameOver      = errors.New("game is over")
	ErrNothingToUndo = errors.New("nothing to undo")
)

// Manager 内存里的对局表：本地跑，人类玩足够了
type Manager struct {
	mu    sync.RWMutex
	games map[string]*GameState
}

func NewManager() *Manager {
	return &Manager{games: make(map[string]*GameState)}
}

// NewGame 开一局；fen 为空时用初始局面。
func (m *Manager) NewGame(fen string) (*GameState, error) {
	pos := xiangqi.NewInitialPosition()
	if fen != "" {
		var err error
		if pos, err = xiangqi.DecodePosition(fen); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	g := &GameState{
		ID:        uuid.NewString(),
		Pos:       pos,
		CreatedAt: now,
	}
	g.refreshStatus()

	m.mu.Lock()
	m.games[g.ID] = g
	m.mu.Unlock()
	return g.snapshot(), nil
}

func (m *Manager) Get(id string) (*GameState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return g.snapshot(), nil
}

// Play 校验并走一步；expect 非空时要求当前局面哈希一致，避免基于旧局面算出的着法落到新局面上。
func (m *Manager) Play(id string, mv xiangqi.Move, expect *uint64) (*GameState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	if g.Over() {
		return nil, ErrGameOver
	}
	if expect != nil && *expect != g.Pos.Hash {
		return nil, fmt.Errorf("%w: position changed", xiangqi.ErrIllegalMove)
	}
	u, err := g.Pos.Play(mv)
	if err != nil {
		return nil, err
	}
	g.history = append(g.history, u)
	g.Moves = append(g.Moves, mv)
	g.refreshStatus()
	return g.snapshot(), nil
}

// Undo 悔一步棋
func (m *Manager) Undo(id string) (*GameState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	n := len(g.history)
	if n == 0 {
		return nil, ErrNothingToUndo
	}
	g.Pos.UndoMove(g.history[n-1])
	g.history = g.history[:n-1]
	g.Moves = g.Moves[:n-1]
	g.refreshStatus()
	return g.snapshot(), nil
}

func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.games, id)
	m.mu.Unlock()
}

// Sweep 清掉超过 idle 没动过的对局，返回清掉的个数。
func (m *Manager) Sweep(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, g := range m.games {
		if g.UpdatedAt.Before(cutoff) {
			delete(m.games, id)
			n++
		}
	}
	return n
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}
