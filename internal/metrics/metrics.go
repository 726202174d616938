// Package metrics holds the Prometheus instrumentation of the simulator.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/niktheblak/iot-ntttcp-simulator/pkg/device"
	"github.com/niktheblak/iot-ntttcp-simulator/pkg/telemetry"
)

const namespace = "iot_simulator"

type Metrics struct {
	Registry          *prometheus.Registry
	Readings          *prometheus.CounterVec
	DevicesRunning    prometheus.Gauge
	BenchmarkRuns     *prometheus.CounterVec
	BenchmarkDuration prometheus.Gauge
}

// New creates the collectors and registers them on a private registry
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Readings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readings_total",
			Help:      "Number of readings produced per simulated device.",
		}, []string{"device"}),
		DevicesRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "devices_running",
			Help:      "Number of simulated devices currently running.",
		}),
		BenchmarkRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "benchmark_runs_total",
			Help:      "Number of NTttcp runs by result.",
		}, []string{"result"}),
		BenchmarkDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "benchmark_duration_seconds",
			Help:      "Wall clock duration of the last successful NTttcp run.",
		}),
	}
	m.Registry.MustRegister(m.Readings, m.DevicesRunning, m.BenchmarkRuns, m.BenchmarkDuration)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Sink wraps next so that every stored reading is counted
func (m *Metrics) Sink(next device.Sink) device.Sink {
	return &countingSink{next: next, readings: m.Readings}
}

type countingSink struct {
	next     device.Sink
	readings *prometheus.CounterVec
}

func (s *countingSink) Put(ctx context.Context, r telemetry.Reading) error {
	if err := s.next.Put(ctx, r); err != nil {
		return err
	}
	s.readings.WithLabelValues(r.DeviceID).Inc()
	return nil
}
