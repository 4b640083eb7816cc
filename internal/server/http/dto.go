package httpserver

import (
	"github.com/samber/lo"

	"xiangqi/internal/engine"
	"xiangqi/internal/server/game"
	"xiangqi/internal/xiangqi"
)

// 前端用的招法结构：行列坐标 + ICCS 文本，两者给一个即可
type MoveDTO struct {
	FromRow int    `json:"from_row"`
	FromCol int    `json:"from_col"`
	ToRow   int    `json:"to_row"`
	ToCol   int    `json:"to_col"`
	ICCS    string `json:"iccs,omitempty"`
}

// 无状态搜索里的一个棋子
type PieceDTO struct {
	Side int    `json:"side"` // 0=红, 1=黑
	Kind string `json:"kind"` // "rook" 或 FEN 字母
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

// NewGame 请求，fen 为空时用初始局面
type NewGameRequest struct {
	FEN string `json:"fen"`
}

// State / Undo 请求
type GameRequest struct {
	GameID string `json:"game_id"`
}

// Play 请求
type PlayRequest struct {
	GameID string  `json:"game_id"`
	Move   MoveDTO `json:"move"`
}

// GameResponse new_game / state / play / undo 共用
type GameResponse struct {
	GameID     string    `json:"game_id"`
	Position   string    `json:"position"` // FEN 字符串
	ToMove     int       `json:"to_move"`  // 0=红(w),1=黑(b)
	LegalMoves []MoveDTO `json:"legal_moves"`
	Moves      []string  `json:"moves"`  // 已走的棋（ICCS）
	Status     string    `json:"status"` // ongoing / no_moves / king_captured
	Winner     int       `json:"winner"` // -1 表示还没分出胜负
}

// AiMoveRequest 请求让 AI 为局面想一步。
// 给 game_id 时用该对局的当前局面，否则用 position（FEN）。
type AiMoveRequest struct {
	GameID   string `json:"game_id"`
	Position string `json:"position"`
	ToMove   *int   `json:"to_move"` // 为空则用 FEN 里的走子方
	MaxDepth int    `json:"max_depth"`
	TimeMs   int64  `json:"time_ms"`
	Apply    bool   `json:"apply"` // 对局模式下直接落子
}

type AiMoveResponse struct {
	BestMove   MoveDTO   `json:"best_move"`
	Score      int       `json:"score"`
	Depth      int       `json:"depth"`
	Nodes      int64     `json:"nodes"`
	PV         []string  `json:"pv"`
	Position   string    `json:"position"`    // apply 时是落子后的局面，否则是原局面
	ToMove     int       `json:"to_move"`     // 下一手执棋方
	LegalMoves []MoveDTO `json:"legal_moves"` // 下一手所有可走棋
	Status     string    `json:"status"`      // "ok" / "no_moves"
	TimeMs     int64     `json:"time_ms"`
}

// SearchRequest 无状态请求：棋盘快照 + 走哪一方 + 深度
type SearchRequest struct {
	Pieces []PieceDTO `json:"pieces"`
	Side   int        `json:"side"`
	Depth  int        `json:"depth"`
	TimeMs int64      `json:"time_ms"`
}

// SearchResponse found 为 false 表示该方无棋可走
type SearchResponse struct {
	Found bool     `json:"found"`
	Move  *MoveDTO `json:"move,omitempty"`
	Score int      `json:"score"`
	Depth int      `json:"depth"`
	Nodes int64    `json:"nodes"`
}

// 分析推送里每层迭代一条
type DepthDTO struct {
	Depth   int     `json:"depth"`
	Move    MoveDTO `json:"move"`
	Score   int     `json:"score"`
	Nodes   int64   `json:"nodes"`
	Elapsed int64   `json:"elapsed_ms"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func sideToInt(s xiangqi.Side) int {
	switch s {
	case xiangqi.Red:
		return 0
	case xiangqi.Black:
		return 1
	default:
		return -1
	}
}

func intToSide(v int) xiangqi.Side {
	if v == 1 {
		return xiangqi.Black
	}
	return xiangqi.Red
}

func moveToDTO(m xiangqi.Move) MoveDTO {
	dto := MoveDTO{FromRow: m.FromRow, FromCol: m.FromCol, ToRow: m.ToRow, ToCol: m.ToCol}
	if !m.IsNone() {
		dto.ICCS = m.String()
	}
	return dto
}

// dtoToMove ICCS 优先；没有 ICCS 时用行列坐标。
func dtoToMove(d MoveDTO) (xiangqi.Move, error) {
	if d.ICCS != "" {
		return xiangqi.ParseMove(d.ICCS)
	}
	return xiangqi.NewMove(d.FromRow, d.FromCol, d.ToRow, d.ToCol), nil
}

func movesToDTO(ms []xiangqi.Move) []MoveDTO {
	return lo.Map(ms, func(m xiangqi.Move, _ int) MoveDTO { return moveToDTO(m) })
}

func movesToICCS(ms []xiangqi.Move) []string {
	return lo.Map(ms, func(m xiangqi.Move, _ int) string { return m.String() })
}

func depthToDTO(d engine.DepthReport) DepthDTO {
	return DepthDTO{
		Depth:   d.Depth,
		Move:    moveToDTO(d.Move),
		Score:   d.Score,
		Nodes:   d.Nodes,
		Elapsed: d.Elapsed.Milliseconds(),
	}
}

func gameToResponse(g *game.GameState) GameResponse {
	var legal []xiangqi.Move
	if !g.Over() {
		legal = g.Pos.LegalMoves()
	}
	return GameResponse{
		GameID:     g.ID,
		Position:   g.Pos.Encode(),
		ToMove:     sideToInt(g.Pos.SideToMove),
		LegalMoves: movesToDTO(legal),
		Moves:      movesToICCS(g.Moves),
		Status:     string(g.Status),
		Winner:     sideToInt(g.Winner),
	}
}

// positionFromPieces 由棋子列表搭一个局面；同格两子、越界、多个王都算错。
func positionFromPieces(pieces []PieceDTO, side int) (*xiangqi.Position, error) {
	pos := xiangqi.NewEmptyPosition(intToSide(side))
	kings := map[xiangqi.Side]int{}
	for _, p := range pieces {
		kind, err := xiangqi.ParseKind(p.Kind)
		if err != nil {
			return nil, err
		}
		s := intToSide(p.Side)
		if kind == xiangqi.King {
			kings[s]++
			if kings[s] > 1 {
				return nil, errTooManyKings
			}
		}
		if _, err := pos.Put(s, kind, p.Row, p.Col); err != nil {
			return nil, err
		}
	}
	return pos, nil
}
