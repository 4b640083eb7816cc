package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"xiangqi/internal/config"
	"xiangqi/internal/engine"
	"xiangqi/internal/server/game"
	"xiangqi/internal/server/pool"
	"xiangqi/internal/xiangqi"
)

var (
	errBadRequest   = errors.New("bad request")
	errNoPosition   = fmt.Errorf("%w: missing position", xiangqi.ErrInvalidFEN)
	errTooManyKings = fmt.Errorf("%w: more than one king per side", xiangqi.ErrInvalidFEN)
)

// Handler 实现 http.Handler：/api/*、/ws/analysis 以及可选的静态页面
type Handler struct {
	cfg    *config.Config
	games  *game.Manager
	pool   *pool.Pool
	router chi.Router
}

func NewHandler(cfg *config.Config) *Handler {
	if cfg == nil {
		cfg = config.Default()
	}
	h := &Handler{
		cfg:   cfg,
		games: game.NewManager(),
		pool:  pool.New(cfg.Search.MaxConcurrent, cfg.Search.TimeLimit),
	}
	h.router = newRouter(h, cfg.WebDir)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) Games() *game.Manager {
	return h.games
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("writeJSON")
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrGameOver), errors.Is(err, game.ErrNothingToUndo):
		return http.StatusConflict
	case errors.Is(err, pool.ErrBusy),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.Is(err, errBadRequest),
		errors.Is(err, xiangqi.ErrInvalidFEN),
		errors.Is(err, xiangqi.ErrBadMoveText),
		errors.Is(err, xiangqi.ErrOutOfBoard),
		errors.Is(err, xiangqi.ErrOccupied),
		errors.Is(err, xiangqi.ErrNoPiece),
		errors.Is(err, xiangqi.ErrNotYourTurn),
		errors.Is(err, xiangqi.ErrIllegalMove),
		errors.Is(err, xiangqi.ErrFlyingGenerals):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	ev := zerolog.Ctx(r.Context()).Debug()
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		ev = zerolog.Ctx(r.Context()).Error()
	}
	ev.Err(err).Int("status", status).Msg("request failed")
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

// decode 读 JSON 请求体；空请求体留给调用方当作零值。
func decode(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("%w: bad json: %v", errBadRequest, err)
}

func (h *Handler) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req NewGameRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := h.games.NewGame(req.FEN)
	if err != nil {
		writeError(w, r, err)
		return
	}
	zerolog.Ctx(r.Context()).Info().Str("game", g.ID).Msg("new game")
	writeJSON(w, http.StatusOK, gameToResponse(g))
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := h.games.Get(req.GameID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gameToResponse(g))
}

func (h *Handler) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req PlayRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	mv, err := dtoToMove(req.Move)
	if err != nil {
		writeError(w, r, err)
		return
	}
	g, err := h.games.Play(req.GameID, mv, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gameToResponse(g))
}

func (h *Handler) handleUndo(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := h.games.Undo(req.GameID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gameToResponse(g))
}

// searchConfig 请求的深度压到配置允许的范围；时间取请求和配置上限中较小的。
func (h *Handler) searchConfig(depth int, timeMs int64) engine.SearchConfig {
	limit := h.cfg.Search.TimeLimit
	if timeMs > 0 {
		if req := time.Duration(timeMs) * time.Millisecond; limit <= 0 || req < limit {
			limit = req
		}
	}
	return engine.SearchConfig{
		MaxDepth:  h.cfg.ClampDepth(depth),
		TimeLimit: limit,
	}
}

// searchInput 找到要思考的局面：对局模式取对局快照，否则解码 FEN。
func (h *Handler) searchInput(req AiMoveRequest) (*xiangqi.Position, engine.SearchConfig, error) {
	cfg := h.searchConfig(req.MaxDepth, req.TimeMs)
	if req.GameID != "" {
		g, err := h.games.Get(req.GameID)
		if err != nil {
			return nil, cfg, err
		}
		if g.Over() {
			return nil, cfg, game.ErrGameOver
		}
		return g.Pos, cfg, nil
	}
	if req.Position == "" {
		return nil, cfg, errNoPosition
	}
	pos, err := xiangqi.DecodePosition(req.Position)
	if err != nil {
		return nil, cfg, err
	}
	// 轮到谁走以请求参数为准；与 FEN 不同时重算哈希
	if req.ToMove != nil {
		if side := intToSide(*req.ToMove); side != pos.SideToMove {
			pos.SideToMove = side
			pos.Hash = pos.CalculateHash()
		}
	}
	return pos, cfg, nil
}

func (h *Handler) handleAiMove(w http.ResponseWriter, r *http.Request) {
	var req AiMoveRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	pos, cfg, err := h.searchInput(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.pool.Run(r.Context(), pos, cfg)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := AiMoveResponse{
		BestMove: moveToDTO(res.BestMove),
		Score:    res.Score,
		Depth:    res.Depth,
		Nodes:    res.Nodes,
		PV:       movesToICCS(res.PV),
		TimeMs:   res.TimeUsed.Milliseconds(),
		Position: pos.Encode(),
		ToMove:   sideToInt(pos.SideToMove),
		Status:   "ok",
	}
	if !res.Found {
		resp.Status = "no_moves"
		resp.LegalMoves = []MoveDTO{}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	if req.Apply && req.GameID != "" {
		expect := pos.Hash
		g, err := h.games.Play(req.GameID, res.BestMove, &expect)
		if err != nil {
			writeError(w, r, err)
			return
		}
		gr := gameToResponse(g)
		resp.Position, resp.ToMove, resp.LegalMoves = gr.Position, gr.ToMove, gr.LegalMoves
	} else {
		resp.LegalMoves = movesToDTO(pos.LegalMoves())
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSearch 无状态：棋盘快照 + 一方 + 深度 → 一步棋或明确的“无棋可走”
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	pos, err := positionFromPieces(req.Pieces, req.Side)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.pool.Run(r.Context(), pos, h.searchConfig(req.Depth, req.TimeMs))
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := SearchResponse{
		Found: res.Found,
		Score: res.Score,
		Depth: res.Depth,
		Nodes: res.Nodes,
	}
	if res.Found {
		m := moveToDTO(res.BestMove)
		resp.Move = &m
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"games":    h.games.Len(),
		"searches": h.pool.Running(),
	})
}
