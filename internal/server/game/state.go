package game

import (
	"time"

	"xiangqi/internal/xiangqi"
)

// GameState 一局棋。Pos 只在 Manager 的锁内被改动；对外给的都是 snapshot。
type GameState struct {
	ID        string
	Pos       *xiangqi.Position
	Moves     []xiangqi.Move
	Status    xiangqi.Status
	Winner    xiangqi.Side
	CreatedAt time.Time
	UpdatedAt time.Time

	history []xiangqi.Undo
}

func (g *GameState) refreshStatus() {
	g.Status, g.Winner = g.Pos.Status()
	g.UpdatedAt = time.Now()
}

func (g *GameState) Over() bool {
	return g.Status != xiangqi.StatusOngoing
}

// snapshot 深拷贝，调用方可以随意使用（比如交给搜索）。
func (g *GameState) snapshot() *GameState {
	return &GameState{
		ID:        g.ID,
		Pos:       g.Pos.Clone(),
		Moves:     append([]xiangqi.Move(nil), g.Moves...),
		Status:    g.Status,
		Winner:    g.Winner,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}
