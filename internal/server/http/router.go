package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

func newRouter(h *Handler, webDir string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.handlePing)
		r.Post("/new_game", h.handleNewGame)
		r.Post("/state", h.handleState)
		r.Post("/play", h.handlePlay)
		r.Post("/undo", h.handleUndo)
		r.Post("/ai_move", h.handleAiMove)
		r.Post("/search", h.handleSearch)
	})
	r.Get("/ws/analysis", h.serveAnalysis)

	if webDir != "" {
		RegisterStaticRoutes(r, webDir, "")
	}
	return r
}

// requestLogger 给每个请求挂一个带 req_id 的 zerolog logger，结束时记一行。
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.With().
			Str("req_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context())))
		logger.Debug().
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("took", time.Since(start)).
			Str("remote", r.RemoteAddr).
			Msg("request")
	})
}
