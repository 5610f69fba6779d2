// Package envconfig provides configuration structs for configuring
// foraging tasks with default schedule parameters. Configurations in
// this package are JSON and YAML serializable.
package envconfig

import (
	"fmt"

	"github.com/samuelfneumann/foraging/environment"
	"github.com/samuelfneumann/foraging/environment/foraging"
	"github.com/samuelfneumann/foraging/environment/schedule"
	"github.com/samuelfneumann/foraging/environment/wrappers"
)

// ScheduleName stores the name of reward schedules that can be
// configured with this package
type ScheduleName string

// Schedules available for configuration
const (
	RandomWalk   ScheduleName = "random_walk"
	CoupledBlock ScheduleName = "coupled_block"
)

// ObservationName stores the name of observers that can be configured
// with this package
type ObservationName string

// Observations available for configuration
const (
	TrialObservation   ObservationName = "trial"
	HistoryObservation ObservationName = "history"
)

// Defaults used by Default
const (
	DefaultNumArms       int = 2
	DefaultNumTrials     int = 1000
	DefaultHistoryLength int = 50
)

// RandomWalkConfig configures a random walk schedule. A single value
// in any field is shared by all arms.
type RandomWalkConfig struct {
	PMin  []float64 `json:"p_min" yaml:"p_min"`
	PMax  []float64 `json:"p_max" yaml:"p_max"`
	Sigma []float64 `json:"sigma" yaml:"sigma"`
	Mean  []float64 `json:"mean,omitempty" yaml:"mean,omitempty"`
}

// CoupledBlockConfig configures a coupled block schedule
type CoupledBlockConfig struct {
	BlockMin     int          `json:"block_min" yaml:"block_min"`
	BlockMax     int          `json:"block_max" yaml:"block_max"`
	BlockBeta    float64      `json:"block_beta" yaml:"block_beta"`
	PRewardPairs [][2]float64 `json:"p_reward_pairs" yaml:"p_reward_pairs"`
}

// Config implements a specific configuration of a foraging task
type Config struct {
	NumArms       int                `json:"num_arms" yaml:"num_arms"`
	AllowIgnore   bool               `json:"allow_ignore" yaml:"allow_ignore"`
	NumTrials     int                `json:"num_trials" yaml:"num_trials"`
	Schedule      ScheduleName       `json:"schedule" yaml:"schedule"`
	RandomWalk    RandomWalkConfig   `json:"random_walk" yaml:"random_walk"`
	CoupledBlock  CoupledBlockConfig `json:"coupled_block" yaml:"coupled_block"`
	Observation   ObservationName    `json:"observation" yaml:"observation"`
	HistoryLength int                `json:"history_length" yaml:"history_length"`
}

// Default returns the default configuration: a two-armed coupled
// block task of 1000 trials that observes the trial index
func Default() Config {
	return Config{
		NumArms:     DefaultNumArms,
		AllowIgnore: false,
		NumTrials:   DefaultNumTrials,
		Schedule:    CoupledBlock,
		RandomWalk: RandomWalkConfig{
			PMin:  []float64{0},
			PMax:  []float64{1},
			Sigma: []float64{0.15},
		},
		CoupledBlock: CoupledBlockConfig{
			BlockMin:     schedule.DefaultBlockMin,
			BlockMax:     schedule.DefaultBlockMax,
			BlockBeta:    schedule.DefaultBlockBeta,
			PRewardPairs: append([][2]float64(nil),
				schedule.DefaultPRewardPairs...),
		},
		Observation:   TrialObservation,
		HistoryLength: DefaultHistoryLength,
	}
}

// NewSchedule returns the reward schedule described by the Config
func (c Config) NewSchedule() (environment.Schedule, error) {
	switch c.Schedule {
	case RandomWalk:
		rw := c.RandomWalk
		return schedule.NewRandomWalk(rw.PMin, rw.PMax, rw.Sigma, rw.Mean), nil

	case CoupledBlock:
		cb := c.CoupledBlock
		return schedule.NewCoupledBlock(cb.BlockMin, cb.BlockMax,
			cb.BlockBeta, cb.PRewardPairs), nil
	}

	return nil, fmt.Errorf("newSchedule: %w: no such schedule %q",
		environment.ErrInvalidConfig, c.Schedule)
}

// NewObserver returns the observer described by the Config
func (c Config) NewObserver() (environment.Observer, error) {
	switch c.Observation {
	case TrialObservation, "":
		return wrappers.NewTrialIndex(), nil

	case HistoryObservation:
		return wrappers.NewHistoryWindow(c.HistoryLength)
	}

	return nil, fmt.Errorf("newObserver: %w: no such observation %q",
		environment.ErrInvalidConfig, c.Observation)
}

// Validate returns an error describing why the Config is invalid, or
// nil if the Config can create a task
func (c Config) Validate() error {
	_, _, err := c.Create()
	return err
}

// Create returns the task described by the Config, wrapped so that it
// returns the configured observations. The unwrapped task is returned
// as well, since it gives access to the session history.
func (c Config) Create() (environment.Environment, *foraging.Task, error) {
	s, err := c.NewSchedule()
	if err != nil {
		return nil, nil, fmt.Errorf("create: %w", err)
	}

	task, err := foraging.New(s, c.NumArms, c.AllowIgnore, c.NumTrials)
	if err != nil {
		return nil, nil, fmt.Errorf("create: %w", err)
	}

	observer, err := c.NewObserver()
	if err != nil {
		return nil, nil, fmt.Errorf("create: %w", err)
	}

	env, err := wrappers.NewObserved(task, observer)
	if err != nil {
		return nil, nil, fmt.Errorf("create: %w", err)
	}
	return env, task, nil
}
