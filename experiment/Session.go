// Package experiment implements functionality for running foraging
// sessions: a single agent acting in a single task, or batches of
// independent sessions run in parallel
package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samuelfneumann/foraging/agent"
	"github.com/samuelfneumann/foraging/environment"
	"github.com/samuelfneumann/foraging/experiment/tracker"
	ts "github.com/samuelfneumann/foraging/timestep"
)

// Session runs an agent in an environment for a full session of
// trials while the agent learns. Timesteps are sent to each registered
// tracker.Tracker as they are generated.
type Session struct {
	env      environment.Environment
	agent    agent.Agent
	trackers []tracker.Tracker
	logger   *slog.Logger
}

// NewSession creates and returns a new Session. If logger is nil,
// slog.Default() is used.
func NewSession(env environment.Environment, a agent.Agent,
	logger *slog.Logger, t ...tracker.Tracker) (*Session, error) {
	if env == nil || a == nil {
		return nil, fmt.Errorf("newSession: environment and agent must not " +
			"be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{env: env, agent: a, trackers: t, logger: logger}, nil
}

// Register registers a tracker.Tracker with the Session so that data
// generated during the session can be tracked and saved
func (s *Session) Register(t tracker.Tracker) {
	s.trackers = append(s.trackers, t)
}

// Run resets the environment with seed and runs the agent until the
// session terminates. The history of the session is returned as a
// Record. Cancelling ctx stops the session between trials.
func (s *Session) Run(ctx context.Context, seed uint64) (tracker.Record,
	error) {
	if r, ok := s.agent.(agent.Resetter); ok {
		r.Reset()
	}

	step, info, err := s.env.Reset(seed)
	if err != nil {
		return tracker.Record{}, fmt.Errorf("run: %w", err)
	}
	if err := s.track(step); err != nil {
		return tracker.Record{}, fmt.Errorf("run: %w", err)
	}

	for !step.Last() {
		if err := ctx.Err(); err != nil {
			return tracker.Record{}, fmt.Errorf("run: trial %v: %w",
				step.Number, err)
		}

		action, err := s.agent.Act(step.Observation)
		if err != nil {
			return tracker.Record{}, fmt.Errorf("run: trial %v: act: %w",
				step.Number, err)
		}

		next, done, err := s.env.Step(action)
		if err != nil {
			return tracker.Record{}, fmt.Errorf("run: trial %v: %w",
				step.Number, err)
		}
		if err := s.track(next); err != nil {
			return tracker.Record{}, fmt.Errorf("run: %w", err)
		}

		err = s.agent.Learn(step.Observation, action, next.Reward,
			next.Observation, done)
		if err != nil {
			return tracker.Record{}, fmt.Errorf("run: trial %v: learn: %w",
				step.Number, err)
		}
		step = next
	}

	record := tracker.NewRecord(info.Task, seed)
	s.logger.Debug("session finished",
		slog.String("id", record.ID),
		slog.Uint64("seed", seed),
		slog.Int("trials", record.NumTrials),
		slog.Int("reward", record.TotalReward()),
	)
	return record, nil
}

// Save saves all the data cached by the trackers to disk
func (s *Session) Save() error {
	for _, t := range s.trackers {
		if err := t.Save(); err != nil {
			return err
		}
	}
	return nil
}

// track tracks the current timestep by caching its data in each tracker
func (s *Session) track(t ts.TimeStep) error {
	for _, tr := range s.trackers {
		if err := tr.Track(t); err != nil {
			return err
		}
	}
	return nil
}
