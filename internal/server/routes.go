package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/niktheblak/ruuvitag-common/pkg/sensor"
)

func healthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, "OK")
	})
}

func latestHandler(store Store, columnMap map[string]string, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loc, err := parseLocation(r.URL.Query().Get("tz"))
		if err != nil {
			logger.LogAttrs(r.Context(), slog.LevelWarn, "Invalid timezone", slog.String("timezone", r.URL.Query().Get("tz")), slog.Any("error", err))
			http.Error(w, "Invalid timezone", http.StatusBadRequest)
			return
		}
		response := make(map[string]map[string]any)
		for id, reading := range store.Latest() {
			response[id] = createResponse(reading.Fields(), columnMap, loc)
		}
		writeJSON(w, r, response, logger)
	})
}

func recentHandler(store Store, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, err := parseN(r.URL.Query().Get("n"), 10)
		if err != nil || n < 1 {
			http.Error(w, "Invalid n", http.StatusBadRequest)
			return
		}
		writeJSON(w, r, store.Recent(n), logger)
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store, max-age=0")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.LogAttrs(r.Context(), slog.LevelError, "Error while writing output", slog.Any("error", err))
	}
}

func parseN(n string, defaultValue int) (int, error) {
	if n == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(n)
}

func parseLocation(tz string) (loc *time.Location, err error) {
	if tz != "" {
		loc, err = time.LoadLocation(tz)
		return
	}
	loc = time.UTC
	return
}

func createResponse(d sensor.Fields, columns map[string]string, loc *time.Location) map[string]any {
	m := make(map[string]any)
	if c, ok := columns["time"]; ok {
		m[c] = d.Timestamp.In(loc)
	}
	if c, ok := columns["name"]; ok && d.Name != nil {
		m[c] = *d.Name
	}
	if c, ok := columns["temperature"]; ok && d.Temperature != nil {
		m[c] = *d.Temperature
	}
	if c, ok := columns["humidity"]; ok && d.Humidity != nil {
		m[c] = *d.Humidity
	}
	return m
}
