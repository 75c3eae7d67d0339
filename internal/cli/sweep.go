package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gabriel/reading-tracker/backend/internal/app"
	"github.com/gabriel/reading-tracker/backend/internal/sweep"
)

type sweepFunc func(ctx context.Context, services *app.Services, opts sweep.Options) (sweep.Report, error)

func init() {
	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Check every tracked book in batches",
	}

	var noProgress bool
	sweepCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "hide the progress bar")

	newSweepCommand := func(use, short string, run sweepFunc, options func(*app.Services) sweep.Options) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				services, closeDB, err := openServices()
				if err != nil {
					return err
				}
				defer closeDB()

				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				opts := options(services)
				var progress *sweepProgress
				if !noProgress {
					progress = newSweepProgress(use)
					opts.Progress = progress.Update
				}

				report, err := run(ctx, services, opts)
				if progress != nil {
					progress.Finish()
				}
				fmt.Fprint(os.Stdout, formatReport(report))
				return err
			},
		}
	}

	sweepCmd.AddCommand(
		newSweepCommand("updates", "Look for new chapters on books waiting for updates",
			func(ctx context.Context, services *app.Services, opts sweep.Options) (sweep.Report, error) {
				return services.Updater.Run(ctx, opts)
			},
			(*app.Services).UpdateSweepOptions,
		),
		newSweepCommand("covers", "Check cover images and refresh broken ones",
			func(ctx context.Context, services *app.Services, opts sweep.Options) (sweep.Report, error) {
				return services.Covers.Run(ctx, opts)
			},
			(*app.Services).CoverSweepOptions,
		),
	)

	rootCmd.AddCommand(sweepCmd)
}
