package server

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/niktheblak/web-common/pkg/auth"

	"github.com/niktheblak/iot-ntttcp-simulator/pkg/middleware"
	"github.com/niktheblak/iot-ntttcp-simulator/pkg/telemetry"
)

// DefaultColumns maps reading fields to response keys
var DefaultColumns = map[string]string{
	"time":        "ts",
	"name":        "device_id",
	"temperature": "temperature",
	"humidity":    "humidity",
}

// Store is the read-only view of the reading buffer the server exposes
type Store interface {
	Latest() map[string]telemetry.Reading
	Recent(n int) []telemetry.Reading
}

// New creates the HTTP handler. A nil metrics handler disables /metrics.
func New(store Store, columns map[string]string, metrics http.Handler, authenticator auth.Authenticator, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if len(columns) == 0 {
		columns = DefaultColumns
	}
	router := httprouter.New()
	router.Handler(http.MethodGet, "/health", healthHandler())
	router.Handler(http.MethodGet, "/latest", middleware.Authenticator(latestHandler(store, columns, logger), authenticator, logger))
	router.Handler(http.MethodGet, "/recent", middleware.Authenticator(recentHandler(store, logger), authenticator, logger))
	if metrics != nil {
		router.Handler(http.MethodGet, "/metrics", middleware.Authenticator(metrics, authenticator, logger))
	}
	return router
}
