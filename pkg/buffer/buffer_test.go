package buffer

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niktheblak/iot-ntttcp-simulator/pkg/telemetry"
)

func reading(id string, temperature float64) telemetry.Reading {
	return telemetry.Reading{
		DeviceID:    id,
		Timestamp:   time.Now(),
		Temperature: temperature,
		Humidity:    50,
	}
}

func TestUnbounded(t *testing.T) {
	t.Parallel()

	b := New(0)
	ctx := context.Background()
	for i := 0; i < 1000; i++ {
		require.NoError(t, b.Put(ctx, reading("device-1", 20)))
	}
	assert.Equal(t, 1000, b.Len())
	assert.Len(t, b.Recent(0), 1000)
	assert.Len(t, b.Recent(10), 10)
}

func TestBounded(t *testing.T) {
	t.Parallel()

	b := New(3)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, b.Put(ctx, reading("device-1", 20+float64(i))))
	}
	assert.Equal(t, 3, b.Len())
	recent := b.Recent(0)
	require.Len(t, recent, 3)
	assert.Equal(t, 22.0, recent[0].Temperature)
	assert.Equal(t, 24.0, recent[2].Temperature)
	assert.Equal(t, map[string]int{"device-1": 5}, b.Counts())
}

func TestLatest(t *testing.T) {
	t.Parallel()

	b := New(0)
	ctx := context.Background()
	require.NoError(t, b.Put(ctx, reading("device-1", 21)))
	require.NoError(t, b.Put(ctx, reading("device-2", 22)))
	require.NoError(t, b.Put(ctx, reading("device-1", 23)))
	latest := b.Latest()
	require.Len(t, latest, 2)
	assert.Equal(t, 23.0, latest["device-1"].Temperature)
	assert.Equal(t, 22.0, latest["device-2"].Temperature)
}

func TestConcurrentPut(t *testing.T) {
	t.Parallel()

	b := New(0)
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = b.Put(ctx, reading(id, 25))
			}
		}(fmt.Sprintf("device-%d", i+1))
	}
	wg.Wait()
	assert.Equal(t, 800, b.Len())
	assert.Len(t, b.Counts(), 8)
}
