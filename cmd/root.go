package cmd

import (
	"context"
	"log/slog"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// shutdownSignals cancel the command context. SIGKILL is absent because it
// cannot be caught.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// Execute runs the root command under fang with the given build version.
func Execute(ctx context.Context, version string) error {
	return fang.Execute(
		ctx,
		NewRootCmd(),
		fang.WithVersion(version),
		fang.WithNotifySignal(shutdownSignals...),
	)
}

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "catgallery",
		Short: "Random cat pictures with captions and a favorites list",
		Long: `Catgallery fetches random cat images from the Cat API (cataas.com).

It serves a small browser gallery where each visitor can caption cats and keep
a favorites list for the length of their session, and offers a one-shot fetch
command for the terminal. Calls to the Cat API are spaced at least two seconds
apart and retried up to three times.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newFetchCmd())

	return cmd
}
