package mobile

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"xiangqi/internal/config"
	"xiangqi/internal/logging"
	httpserver "xiangqi/internal/server/http"
)

// StartServer starts the local HTTP server for an embedding app.
// webDir: physical path to the extracted web assets
// port: port to listen on, e.g. "2888"
func StartServer(webDir string, port string) {
	cfg := config.Default()
	cfg.Addr = "127.0.0.1:" + port
	cfg.WebDir = webDir
	logging.Setup(cfg.LogLevel, "json")

	srv := &http.Server{Addr: cfg.Addr, Handler: httpserver.NewHandler(cfg)}

	// 放到后台跑，不要阻塞 Android UI 线程
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", cfg.Addr).Msg("server error")
		}
	}()
}
