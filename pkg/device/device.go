package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/niktheblak/iot-ntttcp-simulator/pkg/telemetry"
)

const (
	DefaultMinInterval = 500 * time.Millisecond
	DefaultMaxInterval = 2 * time.Second
)

var ErrInvalidConfig = errors.New("invalid device config")

// Sink receives the readings produced by a device
type Sink interface {
	Put(ctx context.Context, r telemetry.Reading) error
}

type Config struct {
	ID          string
	MinInterval time.Duration
	MaxInterval time.Duration
	// Rand is the random source for values and intervals. A nil Rand uses the
	// global source. A *rand.Rand must not be shared between devices.
	Rand   *rand.Rand
	Now    func() time.Time
	Logger *slog.Logger
}

// Device is a simulated IoT device emitting readings at random intervals
type Device struct {
	id     string
	min    time.Duration
	max    time.Duration
	rnd    *rand.Rand
	now    func() time.Time
	logger *slog.Logger
}

// New creates a new device using the given config
func New(cfg Config) (*Device, error) {
	if cfg.ID == "" {
		return nil, fmt.Errorf("%w: device ID is required", ErrInvalidConfig)
	}
	if cfg.MinInterval == 0 && cfg.MaxInterval == 0 {
		cfg.MinInterval = DefaultMinInterval
		cfg.MaxInterval = DefaultMaxInterval
	}
	if cfg.MinInterval <= 0 || cfg.MaxInterval < cfg.MinInterval {
		return nil, fmt.Errorf("%w: interval must satisfy 0 < min <= max, got [%s, %s]", ErrInvalidConfig, cfg.MinInterval, cfg.MaxInterval)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Device{
		id:     cfg.ID,
		min:    cfg.MinInterval,
		max:    cfg.MaxInterval,
		rnd:    cfg.Rand,
		now:    cfg.Now,
		logger: cfg.Logger,
	}, nil
}

func (d *Device) ID() string {
	return d.id
}

// Run produces readings into sink until ctx is cancelled. Cancellation is a
// normal stop and returns nil; only sink failures are returned as errors.
func (d *Device) Run(ctx context.Context, sink Sink) error {
	for {
		r := telemetry.Generate(d.id, d.now(), d.rnd)
		if err := sink.Put(ctx, r); err != nil {
			return fmt.Errorf("device %s: %w", d.id, err)
		}
		d.logger.LogAttrs(
			ctx,
			slog.LevelInfo,
			"Device sent data",
			slog.String("device_id", r.DeviceID),
			slog.Float64("timestamp", r.Epoch()),
			slog.Float64("temperature", r.Temperature),
			slog.Float64("humidity", r.Humidity),
		)
		timer := time.NewTimer(d.NextInterval())
		select {
		case <-ctx.Done():
			timer.Stop()
			d.logger.LogAttrs(ctx, slog.LevelInfo, "Device shutting down", slog.String("device_id", d.id))
			return nil
		case <-timer.C:
		}
	}
}

// NextInterval samples the delay before the next reading, uniformly from
// [MinInterval, MaxInterval].
func (d *Device) NextInterval() time.Duration {
	span := d.max - d.min
	if span == 0 {
		return d.min
	}
	var f float64
	if d.rnd != nil {
		f = d.rnd.Float64()
	} else {
		f = rand.Float64()
	}
	return d.min + time.Duration(f*float64(span))
}
