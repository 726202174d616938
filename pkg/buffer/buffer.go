package buffer

import (
	"context"
	"sync"

	"github.com/niktheblak/iot-ntttcp-simulator/pkg/telemetry"
)

// Buffer is an in-memory queue of readings. Nothing in this program drains it;
// readings are only ever appended and inspected.
type Buffer struct {
	mu       sync.RWMutex
	readings []telemetry.Reading
	latest   map[string]telemetry.Reading
	counts   map[string]int
	capacity int
}

// New creates a buffer. A capacity of zero or less means unbounded, otherwise
// the oldest reading is dropped when the buffer is full.
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{
		latest:   make(map[string]telemetry.Reading),
		counts:   make(map[string]int),
		capacity: capacity,
	}
}

// Put appends a reading. It never blocks.
func (b *Buffer) Put(ctx context.Context, r telemetry.Reading) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.capacity > 0 && len(b.readings) >= b.capacity {
		b.readings = b.readings[1:]
	}
	b.readings = append(b.readings, r)
	b.latest[r.DeviceID] = r
	b.counts[r.DeviceID]++
	return nil
}

// Len returns the number of buffered readings
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.readings)
}

// Recent returns a copy of the n most recent readings, oldest first.
// If n is not positive or exceeds the buffer length all readings are returned.
func (b *Buffer) Recent(n int) []telemetry.Reading {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if n <= 0 || n > len(b.readings) {
		n = len(b.readings)
	}
	result := make([]telemetry.Reading, n)
	copy(result, b.readings[len(b.readings)-n:])
	return result
}

// Latest returns the most recent reading of each device
func (b *Buffer) Latest() map[string]telemetry.Reading {
	b.mu.RLock()
	defer b.mu.RUnlock()
	result := make(map[string]telemetry.Reading, len(b.latest))
	for k, v := range b.latest {
		result[k] = v
	}
	return result
}

// Counts returns the number of readings ever received per device, including
// ones already evicted from a bounded buffer.
func (b *Buffer) Counts() map[string]int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	result := make(map[string]int, len(b.counts))
	for k, v := range b.counts {
		result[k] = v
	}
	return result
}
