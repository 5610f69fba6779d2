// Command foraging runs batches of dynamic foraging sessions and plots
// their reward schedules
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/samuelfneumann/foraging/agent/egreedy"
	_ "github.com/samuelfneumann/foraging/agent/random"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var level string

	rootCmd := &cobra.Command{
		Use:   "foraging",
		Short: "Run and inspect dynamic foraging bandit sessions",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var l slog.Level
			if err := l.UnmarshalText([]byte(level)); err != nil {
				return fmt.Errorf("invalid log level %q: %w", level, err)
			}
			handler := slog.NewTextHandler(cmd.ErrOrStderr(),
				&slog.HandlerOptions{Level: l})
			slog.SetDefault(slog.New(handler))
			return nil
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&level, "log-level", "info",
		"log level: debug, info, warn, or error")

	rootCmd.AddCommand(newRunCmd(), newPlotCmd(), newSummaryCmd())
	return rootCmd
}
