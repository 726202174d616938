package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niktheblak/iot-ntttcp-simulator/pkg/buffer"
	"github.com/niktheblak/iot-ntttcp-simulator/pkg/telemetry"
)

type failingSink struct{}

func (failingSink) Put(ctx context.Context, r telemetry.Reading) error {
	return errors.New("full")
}

func TestSink(t *testing.T) {
	t.Parallel()

	m := New()
	buf := buffer.New(0)
	sink := m.Sink(buf)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, sink.Put(ctx, telemetry.Reading{DeviceID: "device-1", Timestamp: time.Now()}))
	}
	require.NoError(t, sink.Put(ctx, telemetry.Reading{DeviceID: "device-2", Timestamp: time.Now()}))
	assert.Equal(t, 4, buf.Len())
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Readings.WithLabelValues("device-1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Readings.WithLabelValues("device-2")))
}

func TestSinkError(t *testing.T) {
	t.Parallel()

	m := New()
	err := m.Sink(failingSink{}).Put(context.Background(), telemetry.Reading{DeviceID: "device-1"})
	assert.Error(t, err)
	assert.Equal(t, 0, testutil.CollectAndCount(m.Readings))
}

func TestHandler(t *testing.T) {
	t.Parallel()

	m := New()
	m.DevicesRunning.Set(5)
	m.BenchmarkRuns.WithLabelValues("success").Inc()
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "iot_simulator_devices_running 5")
	assert.Contains(t, body, `iot_simulator_benchmark_runs_total{result="success"} 1`)
}
