package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/niktheblak/web-common/pkg/auth"
)

// Authenticator only passes requests carrying a bearer token accepted by authenticator.
// Rejected requests are logged to logger.
func Authenticator(handler http.Handler, authenticator auth.Authenticator, logger *slog.Logger) http.Handler {
	if authenticator == nil {
		return handler
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		err := authenticator.Authenticate(r.Context(), token)
		if err != nil {
			logger.LogAttrs(r.Context(), slog.LevelWarn, "Rejected request", slog.String("path", r.URL.Path), slog.String("remote_addr", r.RemoteAddr), slog.Any("error", err))
			forbidden(w)
			return
		}
		handler.ServeHTTP(w, r)
	})
}

func forbidden(w http.ResponseWriter) {
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
}
