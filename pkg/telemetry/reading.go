package telemetry

import (
	"encoding/json"
	"math"
	"math/rand/v2"
	"time"

	"github.com/niktheblak/ruuvitag-common/pkg/sensor"
)

const (
	MinTemperature = 20.0
	MaxTemperature = 30.0
	MinHumidity    = 40.0
	MaxHumidity    = 60.0
)

// Reading is one simulated telemetry sample
type Reading struct {
	DeviceID    string
	Timestamp   time.Time
	Temperature float64
	Humidity    float64
}

type jsonReading struct {
	DeviceID    string  `json:"device_id"`
	Timestamp   float64 `json:"timestamp"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

// Generate creates a new reading for the given device. If rnd is nil the
// global random source is used.
func Generate(deviceID string, now time.Time, rnd *rand.Rand) Reading {
	return Reading{
		DeviceID:    deviceID,
		Timestamp:   now,
		Temperature: Round(uniform(rnd, MinTemperature, MaxTemperature), 2),
		Humidity:    Round(uniform(rnd, MinHumidity, MaxHumidity), 2),
	}
}

// Epoch returns the timestamp as fractional seconds since the Unix epoch
func (r Reading) Epoch() float64 {
	return float64(r.Timestamp.Unix()) + float64(r.Timestamp.Nanosecond())/float64(time.Second)
}

func (r Reading) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonReading{
		DeviceID:    r.DeviceID,
		Timestamp:   r.Epoch(),
		Temperature: r.Temperature,
		Humidity:    r.Humidity,
	})
}

func (r *Reading) UnmarshalJSON(b []byte) error {
	var jr jsonReading
	if err := json.Unmarshal(b, &jr); err != nil {
		return err
	}
	sec, frac := math.Modf(jr.Timestamp)
	*r = Reading{
		DeviceID:    jr.DeviceID,
		Timestamp:   time.Unix(int64(sec), int64(frac*float64(time.Second))),
		Temperature: jr.Temperature,
		Humidity:    jr.Humidity,
	}
	return nil
}

// Fields converts the reading to the common RuuviTag measurement representation.
// The device ID is used as the measurement name.
func (r Reading) Fields() sensor.Fields {
	var (
		name        = r.DeviceID
		temperature = r.Temperature
		humidity    = r.Humidity
	)
	return sensor.Fields{
		Timestamp:   r.Timestamp,
		Name:        &name,
		Temperature: &temperature,
		Humidity:    &humidity,
	}
}

// InBounds reports whether the reading's values are within the simulated ranges
func (r Reading) InBounds() bool {
	return r.Temperature >= MinTemperature && r.Temperature <= MaxTemperature &&
		r.Humidity >= MinHumidity && r.Humidity <= MaxHumidity
}

// Round rounds v to the given number of decimals
func Round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}

func uniform(rnd *rand.Rand, lo, hi float64) float64 {
	var f float64
	if rnd != nil {
		f = rnd.Float64()
	} else {
		f = rand.Float64()
	}
	return lo + f*(hi-lo)
}
