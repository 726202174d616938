package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/niktheblak/web-common/pkg/auth"
	"github.com/spf13/viper"

	"github.com/niktheblak/iot-ntttcp-simulator/internal/metrics"
	"github.com/niktheblak/iot-ntttcp-simulator/internal/server"
)

// startServer starts the inspection server if a port is configured. The
// returned function shuts it down.
func startServer(store server.Store, m *metrics.Metrics) (shutdown func()) {
	port := viper.GetInt("server.port")
	if port <= 0 {
		return func() {}
	}
	var authenticator auth.Authenticator
	if tokens := viper.GetStringSlice("server.token"); len(tokens) > 0 {
		logger.Info("Using authentication", "tokens", len(tokens))
		authenticator = auth.Static(tokens...)
	} else {
		logger.Info("Not using authentication")
		authenticator = auth.AlwaysAllow()
	}
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: server.New(store, viper.GetStringMapString("columns"), m.Handler(), authenticator, logger),
	}
	go func() {
		logger.LogAttrs(nil, slog.LevelInfo, "Starting server", slog.Int("port", port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start HTTP server", "err", err)
		}
	}()
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shut down HTTP server", "err", err)
		}
	}
}
