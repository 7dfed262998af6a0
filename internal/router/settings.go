package router

import (
	"fmt"
	"math"
)

// metersPerMinutePerKmh converts a velocity in km/h into meters per minute.
const metersPerMinutePerKmh = 1000.0 / 60.0

// Settings configures how itinerary time is accounted.
type Settings struct {
	// BusWaitTime is the time in minutes spent waiting before every boarding.
	BusWaitTime float64 `yaml:"bus_wait_time" json:"bus_wait_time" validate:"gte=0"`
	// BusVelocity is the bus speed in km/h.
	BusVelocity float64 `yaml:"bus_velocity" json:"bus_velocity" validate:"gt=0"`
}

// ConfigurationError reports routing settings that cannot produce a valid graph.
type ConfigurationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid routing settings: %s=%g %s", e.Field, e.Value, e.Reason)
}

// Validate rejects a negative wait time and a non-positive velocity. A zero
// velocity would make every ride infinitely long.
func (s Settings) Validate() error {
	if s.BusWaitTime < 0 || math.IsNaN(s.BusWaitTime) {
		return &ConfigurationError{Field: "bus_wait_time", Value: s.BusWaitTime, Reason: "must be non-negative"}
	}
	if !(s.BusVelocity > 0) {
		return &ConfigurationError{Field: "bus_velocity", Value: s.BusVelocity, Reason: "must be positive"}
	}
	return nil
}

func (s Settings) rideMinutes(meters float64) float64 {
	return meters / (s.BusVelocity * metersPerMinutePerKmh)
}
