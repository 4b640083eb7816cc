package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"xiangqi/internal/engine"
)

const (
	wsIdlePingInterval = 30 * time.Second
	wsRequestTimeout   = 10 * time.Second
	wsWriteTimeout     = 5 * time.Second
)

// 推送给客户端的消息：depth（每层一条）、result（最终结果）、error、ping
type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// serveAnalysis 客户端连上后发一条 AiMoveRequest，服务端每完成一层迭代推一条 depth，
// 最后推 result 并关闭连接。客户端提前断开会取消搜索。
func (h *Handler) serveAnalysis(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Debug().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	var req AiMoveRequest
	_ = conn.SetReadDeadline(time.Now().Add(wsRequestTimeout))
	if err := conn.ReadJSON(&req); err != nil {
		logger.Debug().Err(err).Msg("analysis request")
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	pos, cfg, err := h.searchInput(req)
	if err != nil {
		writeWS(conn, wsMessage{Type: "error", Payload: mustMarshal(ErrorResponse{Error: err.Error()})})
		closeWS(conn)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		// 只为发现断开；客户端之后发来的内容都丢弃
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	send := make(chan []byte, 64)
	done := make(chan struct{})
	writeErr := make(chan error, 1)
	go func() {
		writeErr <- writeWSWithHeartbeat(conn, send, done)
	}()
	publish := func(msg wsMessage) {
		select {
		case send <- mustMarshal(msg):
		default:
		}
	}

	cfg.OnDepth = func(d engine.DepthReport) {
		publish(wsMessage{Type: "depth", Payload: mustMarshal(depthToDTO(d))})
	}
	res, err := h.pool.Run(ctx, pos, cfg)
	if err != nil {
		publish(wsMessage{Type: "error", Payload: mustMarshal(ErrorResponse{Error: err.Error()})})
	} else {
		final := SearchResponse{Found: res.Found, Score: res.Score, Depth: res.Depth, Nodes: res.Nodes}
		if res.Found {
			m := moveToDTO(res.BestMove)
			final.Move = &m
		}
		publish(wsMessage{Type: "result", Payload: mustMarshal(final)})
	}
	close(done)
	if err := <-writeErr; err != nil {
		logger.Debug().Err(err).Msg("analysis stream")
		return
	}
	closeWS(conn)
}

// writeWSWithHeartbeat 把 send 里的消息写出去，空闲时发 ping；
// done 关闭后把剩下的写完再返回。
func writeWSWithHeartbeat(conn *websocket.Conn, send <-chan []byte, done <-chan struct{}) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()
	pingPayload := mustMarshal(wsMessage{Type: "ping"})

	write := func(msg []byte) error {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return err
		}
		lastWrite = time.Now()
		return nil
	}

	for {
		select {
		case msg := <-send:
			if err := write(msg); err != nil {
				return err
			}
		case <-done:
			for {
				select {
				case msg := <-send:
					if err := write(msg); err != nil {
						return err
					}
				default:
					return nil
				}
			}
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := write(pingPayload); err != nil {
				return err
			}
		}
	}
}

func writeWS(conn *websocket.Conn, msg wsMessage) {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	_ = conn.WriteMessage(websocket.TextMessage, mustMarshal(msg))
}

func closeWS(conn *websocket.Conn) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(wsWriteTimeout))
}
