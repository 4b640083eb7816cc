package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xiangqi/internal/config"
)

const (
	rookTakesKingFEN = "4k4/9/9/9/9/9/9/9/4R4/3K5 w"
	blackStuckFEN    = "3aka3/4a4/9/9/9/9/9/9/9/4K4 b"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	os.Exit(m.Run())
}

func testHandler(t *testing.T) *Handler {
	t.Helper()
	cfg := config.Default()
	cfg.Search.MaxDepth = 3
	cfg.Search.DefaultDepth = 2
	return NewHandler(cfg)
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestGameFlow(t *testing.T) {
	h := testHandler(t)

	rec := post(t, h, "/api/new_game", NewGameRequest{})
	require.Equal(t, http.StatusOK, rec.Code)
	g := decodeBody[GameResponse](t, rec)
	require.NotEmpty(t, g.GameID)
	assert.Equal(t, 0, g.ToMove)
	assert.Len(t, g.LegalMoves, 44)
	assert.Equal(t, "ongoing", g.Status)
	assert.Equal(t, -1, g.Winner)

	rec = post(t, h, "/api/play", PlayRequest{GameID: g.GameID, Move: MoveDTO{ICCS: "h2e2"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	played := decodeBody[GameResponse](t, rec)
	assert.Equal(t, 1, played.ToMove)
	assert.Equal(t, []string{"h2e2"}, played.Moves)

	// 行列坐标也可以
	rec = post(t, h, "/api/play", PlayRequest{GameID: g.GameID, Move: MoveDTO{FromRow: 0, FromCol: 1, ToRow: 2, ToCol: 2}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = post(t, h, "/api/state", GameRequest{GameID: g.GameID})
	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeBody[GameResponse](t, rec)
	assert.Equal(t, []string{"h2e2", "b9c7"}, state.Moves)

	rec = post(t, h, "/api/undo", GameRequest{GameID: g.GameID})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, played.Position, decodeBody[GameResponse](t, rec).Position)
}

func TestPlayErrors(t *testing.T) {
	h := testHandler(t)
	g := decodeBody[GameResponse](t, post(t, h, "/api/new_game", nil))

	tests := []struct {
		name string
		req  PlayRequest
		want int
	}{
		{"unknown game", PlayRequest{GameID: "missing", Move: MoveDTO{ICCS: "h2e2"}}, http.StatusNotFound},
		{"bad text", PlayRequest{GameID: g.GameID, Move: MoveDTO{ICCS: "zz"}}, http.StatusBadRequest},
		{"illegal", PlayRequest{GameID: g.GameID, Move: MoveDTO{ICCS: "a0a5"}}, http.StatusBadRequest},
		{"wrong side", PlayRequest{GameID: g.GameID, Move: MoveDTO{ICCS: "a9a8"}}, http.StatusBadRequest},
		{"empty square", PlayRequest{GameID: g.GameID, Move: MoveDTO{ICCS: "e4e5"}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h, "/api/play", tt.req)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decodeBody[ErrorResponse](t, rec).Error)
		})
	}

	rec := post(t, h, "/api/undo", GameRequest{GameID: g.GameID})
	assert.Equal(t, http.StatusConflict, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/play", strings.NewReader("{not json"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, h, "/api/new_game", NewGameRequest{FEN: "garbage"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAiMoveFromFEN(t *testing.T) {
	h := testHandler(t)

	rec := post(t, h, "/api/ai_move", AiMoveRequest{Position: rookTakesKingFEN, MaxDepth: 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[AiMoveResponse](t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "e1e9", resp.BestMove.ICCS)
	assert.Equal(t, rookTakesKingFEN, resp.Position)
	assert.NotEmpty(t, resp.LegalMoves)

	rec = post(t, h, "/api/ai_move", AiMoveRequest{Position: blackStuckFEN})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeBody[AiMoveResponse](t, rec)
	assert.Equal(t, "no_moves", resp.Status)
	assert.Equal(t, -1, resp.BestMove.FromRow)
	assert.Empty(t, resp.BestMove.ICCS)

	// to_move 覆盖 FEN 里的走子方
	red := 0
	rec = post(t, h, "/api/ai_move", AiMoveRequest{Position: blackStuckFEN, ToMove: &red, MaxDepth: 1})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeBody[AiMoveResponse](t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, resp.ToMove)

	rec = post(t, h, "/api/ai_move", AiMoveRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAiMoveApplyToGame(t *testing.T) {
	h := testHandler(t)
	g := decodeBody[GameResponse](t, post(t, h, "/api/new_game", NewGameRequest{FEN: rookTakesKingFEN}))

	rec := post(t, h, "/api/ai_move", AiMoveRequest{GameID: g.GameID, MaxDepth: 1, Apply: true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[AiMoveResponse](t, rec)
	assert.Equal(t, "e1e9", resp.BestMove.ICCS)
	assert.Equal(t, 1, resp.ToMove)

	state := decodeBody[GameResponse](t, post(t, h, "/api/state", GameRequest{GameID: g.GameID}))
	assert.Equal(t, "king_captured", state.Status)
	assert.Equal(t, 0, state.Winner)
	assert.Empty(t, state.LegalMoves)

	rec = post(t, h, "/api/ai_move", AiMoveRequest{GameID: g.GameID})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStatelessSearch(t *testing.T) {
	h := testHandler(t)

	rec := post(t, h, "/api/search", SearchRequest{
		Pieces: []PieceDTO{
			{Side: 1, Kind: "king", Row: 0, Col: 4},
			{Side: 0, Kind: "R", Row: 8, Col: 4},
			{Side: 0, Kind: "king", Row: 9, Col: 3},
		},
		Side:  0,
		Depth: 2,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[SearchResponse](t, rec)
	require.True(t, resp.Found)
	require.NotNil(t, resp.Move)
	assert.Equal(t, MoveDTO{FromRow: 8, FromCol: 4, ToRow: 0, ToCol: 4, ICCS: "e1e9"}, *resp.Move)
	assert.Equal(t, 2, resp.Depth)

	// 只有一个孤王且被困住的一方
	rec = post(t, h, "/api/search", SearchRequest{
		Pieces: []PieceDTO{
			{Side: 1, Kind: "advisor", Row: 0, Col: 3},
			{Side: 1, Kind: "king", Row: 0, Col: 4},
			{Side: 1, Kind: "advisor", Row: 0, Col: 5},
			{Side: 1, Kind: "advisor", Row: 1, Col: 4},
			{Side: 0, Kind: "king", Row: 9, Col: 4},
		},
		Side: 1,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeBody[SearchResponse](t, rec)
	assert.False(t, resp.Found)
	assert.Nil(t, resp.Move)

	bad := []SearchRequest{
		{Pieces: []PieceDTO{{Side: 0, Kind: "king", Row: 9, Col: 4}, {Side: 0, Kind: "king", Row: 8, Col: 4}}},
		{Pieces: []PieceDTO{{Side: 0, Kind: "dragon", Row: 9, Col: 4}}},
		{Pieces: []PieceDTO{{Side: 0, Kind: "rook", Row: 10, Col: 4}}},
		{Pieces: []PieceDTO{{Side: 0, Kind: "rook", Row: 5, Col: 4}, {Side: 1, Kind: "pawn", Row: 5, Col: 4}}},
	}
	for i, req := range bad {
		rec := post(t, h, "/api/search", req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "case %d: %s", i, rec.Body.String())
	}
}

func TestSearchConfigClamps(t *testing.T) {
	h := testHandler(t)
	h.cfg.Search.TimeLimit = 0

	cfg := h.searchConfig(99, 0)
	assert.Equal(t, 3, cfg.MaxDepth)
	assert.Zero(t, cfg.TimeLimit)

	cfg = h.searchConfig(0, 250)
	assert.Equal(t, 2, cfg.MaxDepth)
	assert.Equal(t, int64(250), cfg.TimeLimit.Milliseconds())

	h.cfg.Search.TimeLimit = 100 * time.Millisecond
	cfg = h.searchConfig(1, 5000)
	assert.Equal(t, int64(100), cfg.TimeLimit.Milliseconds())
}

func TestAnalysisStream(t *testing.T) {
	srv := httptest.NewServer(testHandler(t))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/analysis"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(AiMoveRequest{Position: rookTakesKingFEN, MaxDepth: 3}))

	var depths []int
	var final SearchResponse
	for {
		var msg wsMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == "ping" {
			continue
		}
		if msg.Type == "depth" {
			var d DepthDTO
			require.NoError(t, json.Unmarshal(msg.Payload, &d))
			depths = append(depths, d.Depth)
			continue
		}
		require.Equal(t, "result", msg.Type, string(msg.Payload))
		require.NoError(t, json.Unmarshal(msg.Payload, &final))
		break
	}
	// 第二层看到对方无子可走就是杀，不再加深
	assert.Equal(t, []int{1, 2}, depths)
	assert.True(t, final.Found)
	require.NotNil(t, final.Move)
	assert.Equal(t, "e1e9", final.Move.ICCS)
}

func TestAnalysisStreamBadRequest(t *testing.T) {
	srv := httptest.NewServer(testHandler(t))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/analysis"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(AiMoveRequest{Position: "bad"}))
	var msg wsMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "error", msg.Type)
}

func TestStaticRoutes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("// xiangqi"), 0o644))

	cfg := config.Default()
	cfg.WebDir = dir
	h := NewHandler(cfg)

	req := httptest.NewRequest(http.MethodGet, "/web/app.js", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "xiangqi")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0)")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/web_mobile/", rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/?view=desktop", nil)
	req.Header.Set("User-Agent", "Android")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "/web/", rec.Header().Get("Location"))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), viewCookieName+"=web")
}

func TestPing(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}
