package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/samuelfneumann/foraging/analysis"
	"github.com/samuelfneumann/foraging/experiment/tracker"
	"github.com/samuelfneumann/foraging/plot"
)

type sourceOptions struct {
	in    string
	store string
	db    string
	id    string
}

func (o *sourceOptions) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&o.in, "in", "i", "", "gob file of session records")
	flags.StringVar(&o.store, "store", "", "record store backend: sqlite")
	flags.StringVar(&o.db, "db", "foraging.db", "sqlite database path")
	flags.StringVar(&o.id, "id", "", "only use the record with this ID")
}

// load returns the records selected by the options
func (o *sourceOptions) load(cmd *cobra.Command) ([]tracker.Record, error) {
	var records []tracker.Record

	switch {
	case o.in != "":
		var err error
		if records, err = tracker.LoadRecords(o.in); err != nil {
			return nil, err
		}

	case o.store != "":
		s, err := openStore(cmd.Context(), o.store, o.db)
		if err != nil {
			return nil, err
		}
		defer s.Close()

		if o.id != "" {
			r, ok, err := s.GetRecord(cmd.Context(), o.id)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fmt.Errorf("no record with id %q", o.id)
			}
			return []tracker.Record{r}, nil
		}
		if records, err = s.ListRecords(cmd.Context()); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("one of --in or --store is required")
	}

	if o.id == "" {
		return records, nil
	}
	for _, r := range records {
		if r.ID == o.id {
			return []tracker.Record{r}, nil
		}
	}
	return nil, fmt.Errorf("no record with id %q", o.id)
}

func newPlotCmd() *cobra.Command {
	var (
		source sourceOptions
		prefix string
		width  int
		height int
	)

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Plot the reward schedules of saved sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := source.load(cmd)
			if err != nil {
				return err
			}

			opts := plot.DefaultOptions()
			opts.Width, opts.Height = width, height
			for _, r := range records {
				path := fmt.Sprintf("%v%v.png", prefix, r.ID)
				if err := plot.Save(path, r, opts); err != nil {
					return err
				}
				slog.Info("saved plot", slog.String("file", path))
			}
			return nil
		},
	}

	source.register(cmd)
	cmd.Flags().StringVar(&prefix, "prefix", "schedule_",
		"prefix of the saved PNG files")
	cmd.Flags().IntVar(&width, "width", plot.DefaultOptions().Width,
		"image width")
	cmd.Flags().IntVar(&height, "height", plot.DefaultOptions().Height,
		"image height")

	return cmd
}

func newSummaryCmd() *cobra.Command {
	var source sourceOptions

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize the choices of saved sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := source.load(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range records {
				s, err := analysis.Summarize(r)
				if err != nil {
					return fmt.Errorf("record %v: %w", r.ID, err)
				}
				fmt.Fprintf(out, "%v\treward=%.3f\tbest=%.3f\tignore=%.3f"+
					"\tswitches=%v\tchoices=%.3f\n", r.ID, s.RewardRate,
					s.BestArmRate, s.IgnoreRate, s.Switches, s.ChoiceFractions)
			}
			return nil
		},
	}

	source.register(cmd)
	return cmd
}
