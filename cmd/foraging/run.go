package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/samuelfneumann/foraging/experiment"
	"github.com/samuelfneumann/foraging/experiment/store"
	"github.com/samuelfneumann/foraging/experiment/tracker"
	"github.com/samuelfneumann/foraging/utils/progressbar"
)

type runOptions struct {
	config   string
	sessions int
	seed     uint64
	workers  int
	store    string
	db       string
	out      string
	progress bool
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a batch of foraging sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.config, "config", "c", "",
		"YAML or JSON experiment configuration")
	flags.IntVar(&opts.sessions, "sessions", 0,
		"number of sessions, overrides the configuration")
	flags.Uint64Var(&opts.seed, "seed", 0,
		"base seed, overrides the configuration")
	flags.IntVar(&opts.workers, "workers", 0,
		"number of parallel sessions, overrides the configuration")
	flags.StringVar(&opts.store, "store", "",
		"record store backend: memory or sqlite")
	flags.StringVar(&opts.db, "db", "foraging.db", "sqlite database path")
	flags.StringVarP(&opts.out, "out", "o", "",
		"gob file to save session records to")
	flags.BoolVar(&opts.progress, "progress", true, "show a progress bar")

	return cmd
}

func runBatch(cmd *cobra.Command, opts runOptions) error {
	config := experiment.DefaultConfig()
	if opts.config != "" {
		var err error
		if config, err = experiment.LoadConfig(opts.config); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("sessions") {
		config.Sessions = opts.sessions
	}
	if flags.Changed("seed") {
		config.Seed = opts.seed
	}
	if flags.Changed("workers") {
		config.Workers = opts.workers
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	var s store.Store
	if opts.store != "" {
		var err error
		if s, err = openStore(ctx, opts.store, opts.db); err != nil {
			return err
		}
		defer s.Close()
	}

	batch, err := experiment.NewBatch(config, s, slog.Default())
	if err != nil {
		return err
	}

	if opts.progress {
		bar := progressbar.New(cmd.ErrOrStderr(), 40, config.Sessions)
		defer bar.Close()
		batch.OnSession(func(tracker.Record) { bar.Increment() })
	}

	records, err := batch.Run(ctx)
	if err != nil {
		return err
	}

	if opts.out != "" {
		if err := tracker.SaveRecords(opts.out, records); err != nil {
			return err
		}
		slog.Info("saved records", slog.String("file", opts.out),
			slog.Int("records", len(records)))
	}

	for _, r := range records {
		fmt.Fprintf(cmd.OutOrStdout(), "%v\tseed=%v\treward=%v/%v\n", r.ID,
			r.Seed, r.TotalReward(), len(r.Choices))
	}
	return nil
}

func openStore(ctx context.Context, kind, path string) (store.Store, error) {
	s, err := store.NewStore(kind, path)
	if err != nil {
		return nil, err
	}
	if err := s.Init(ctx); err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}
