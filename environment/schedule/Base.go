// Package schedule implements reward schedules for dynamic foraging
// tasks. A reward schedule decides the hidden reward probability of
// each arm on each trial of a session.
package schedule

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/spatial/r1"

	"github.com/samuelfneumann/foraging/environment"
)

// Base is a Schedule without any trial generation. It can be embedded
// in a type that only overrides some methods, and every method that
// is not overridden reports environment.ErrUnimplementedSchedule.
type Base struct{}

// Validate implements the environment.Schedule interface
func (Base) Validate(int) error {
	return environment.ErrUnimplementedSchedule
}

// Initialize implements the environment.Schedule interface
func (Base) Initialize(rand.Source, int) ([]float64, error) {
	return nil, environment.ErrUnimplementedSchedule
}

// Advance implements the environment.Schedule interface
func (Base) Advance(rand.Source, [][]float64) ([]float64, error) {
	return nil, environment.ErrUnimplementedSchedule
}

// Bounds returns the unit interval for each arm
func (Base) Bounds(numArms int) []r1.Interval {
	bounds := make([]r1.Interval, numArms)
	for i := range bounds {
		bounds[i] = r1.Interval{Min: 0, Max: 1}
	}
	return bounds
}
