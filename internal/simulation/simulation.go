package simulation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/niktheblak/iot-ntttcp-simulator/internal/metrics"
	"github.com/niktheblak/iot-ntttcp-simulator/pkg/device"
	"github.com/niktheblak/iot-ntttcp-simulator/pkg/ntttcp"
)

var ErrInvalidConfig = errors.New("invalid simulation config")

type Config struct {
	Devices     int
	MinInterval time.Duration
	MaxInterval time.Duration
	// Benchmark configures the NTttcp run. Zero Streams means one stream per device.
	Benchmark ntttcp.Config
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

type Result struct {
	RunID    string
	Devices  int
	Sender   *ntttcp.Report
	Receiver *ntttcp.Report
	Elapsed  time.Duration
}

// DeviceID returns the identifier of the i:th (zero based) simulated device
func DeviceID(i int) string {
	return fmt.Sprintf("device-%d", i+1)
}

// Run starts the simulated devices, performs one NTttcp measurement and stops
// the devices once the measurement has finished, successfully or not.
func Run(ctx context.Context, cfg Config, sink device.Sink) (*Result, error) {
	cfg = withDefaults(cfg)
	if cfg.Devices < 1 {
		return nil, fmt.Errorf("%w: at least one device is required", ErrInvalidConfig)
	}
	runID := uuid.NewString()
	logger := cfg.Logger.With(slog.String("run_id", runID))
	bench := cfg.Benchmark
	if bench.Streams == 0 {
		bench.Streams = cfg.Devices
	}
	bench.Logger = logger
	runner, err := ntttcp.NewRunner(bench)
	if err != nil {
		return nil, err
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "Starting test", slog.Int("devices", cfg.Devices), slog.Int("streams", bench.Streams))

	devCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, err := startDevices(devCtx, cfg, sink, logger)
	if err != nil {
		return nil, err
	}

	res, benchErr := runner.Run(ctx)
	logger.LogAttrs(ctx, slog.LevelInfo, "Stopping devices")
	cancel()
	devErr := g.Wait()

	if cfg.Metrics != nil {
		if benchErr != nil {
			cfg.Metrics.BenchmarkRuns.WithLabelValues("failure").Inc()
		} else {
			cfg.Metrics.BenchmarkRuns.WithLabelValues("success").Inc()
			cfg.Metrics.BenchmarkDuration.Set(res.Elapsed.Seconds())
		}
	}
	if err := errors.Join(benchErr, devErr); err != nil {
		return nil, err
	}
	return &Result{
		RunID:    runID,
		Devices:  cfg.Devices,
		Sender:   res.Sender,
		Receiver: res.Receiver,
		Elapsed:  res.Elapsed,
	}, nil
}

// Simulate runs the devices without a measurement until ctx is done
func Simulate(ctx context.Context, cfg Config, sink device.Sink) error {
	cfg = withDefaults(cfg)
	if cfg.Devices < 1 {
		return fmt.Errorf("%w: at least one device is required", ErrInvalidConfig)
	}
	g, err := startDevices(ctx, cfg, sink, cfg.Logger)
	if err != nil {
		return err
	}
	return g.Wait()
}

func startDevices(ctx context.Context, cfg Config, sink device.Sink, logger *slog.Logger) (*errgroup.Group, error) {
	devices := make([]*device.Device, cfg.Devices)
	for i := range devices {
		d, err := device.New(device.Config{
			ID:          DeviceID(i),
			MinInterval: cfg.MinInterval,
			MaxInterval: cfg.MaxInterval,
			Logger:      logger,
		})
		if err != nil {
			return nil, err
		}
		devices[i] = d
	}
	if cfg.Metrics != nil {
		sink = cfg.Metrics.Sink(sink)
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, d := range devices {
		g.Go(func() error {
			if cfg.Metrics != nil {
				cfg.Metrics.DevicesRunning.Inc()
				defer cfg.Metrics.DevicesRunning.Dec()
			}
			return d.Run(gctx, sink)
		})
	}
	logger.LogAttrs(ctx, slog.LevelDebug, "Devices started", slog.Int("devices", len(devices)))
	return g, nil
}

func withDefaults(cfg Config) Config {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return cfg
}
