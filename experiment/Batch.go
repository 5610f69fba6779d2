package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/samuelfneumann/foraging/experiment/store"
	"github.com/samuelfneumann/foraging/experiment/tracker"
)

// Batch runs many independent sessions in parallel. Every session owns
// its own task, schedule, and agent, each created from the Config and
// seeded separately, so the records of a Batch do not depend on the
// number of workers.
type Batch struct {
	config Config
	store  store.Store
	logger *slog.Logger
	done   func(tracker.Record)
}

// NewBatch creates and returns a new Batch. If s is non-nil, every
// finished session is saved to it. If logger is nil, slog.Default()
// is used.
func NewBatch(c Config, s store.Store, logger *slog.Logger) (*Batch, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newBatch: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Batch{config: c, store: s, logger: logger}, nil
}

// OnSession registers a function that is called after each session
// finishes. It may be called from multiple goroutines at once.
func (b *Batch) OnSession(f func(tracker.Record)) {
	b.done = f
}

// Run runs all sessions of the batch and returns their records in
// session order. The first error cancels all sessions that are still
// running.
func (b *Batch) Run(ctx context.Context) ([]tracker.Record, error) {
	start := time.Now()
	b.logger.Info("starting batch",
		slog.String("name", b.config.Name),
		slog.Int("sessions", b.config.Sessions),
		slog.Int("workers", b.config.Workers),
		slog.String("schedule", string(b.config.Env.Schedule)),
	)

	records := make([]tracker.Record, b.config.Sessions)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.config.Workers)

	for i := 0; i < b.config.Sessions; i++ {
		i := i
		g.Go(func() error {
			record, err := b.runSession(ctx, b.config.Seed+uint64(i))
			if err != nil {
				return fmt.Errorf("session %v: %w", i, err)
			}
			records[i] = record

			if b.done != nil {
				b.done(record)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		b.logger.Error("batch failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("run: %w", err)
	}

	b.logger.Info("batch finished",
		slog.String("name", b.config.Name),
		slog.Duration("elapsed", time.Since(start)),
	)
	return records, nil
}

// runSession creates and runs a single session seeded by seed
func (b *Batch) runSession(ctx context.Context, seed uint64) (
	tracker.Record, error) {
	env, task, err := b.config.Env.Create()
	if err != nil {
		return tracker.Record{}, err
	}

	a, err := b.config.Agent.CreateAgent(task.NumActions(), seed)
	if err != nil {
		return tracker.Record{}, err
	}

	session, err := NewSession(env, a, b.logger)
	if err != nil {
		return tracker.Record{}, err
	}

	record, err := session.Run(ctx, seed)
	if err != nil {
		return tracker.Record{}, err
	}

	if b.store != nil {
		if err := b.store.SaveRecord(ctx, record); err != nil {
			return tracker.Record{}, fmt.Errorf("save record: %w", err)
		}
	}
	return record, nil
}
