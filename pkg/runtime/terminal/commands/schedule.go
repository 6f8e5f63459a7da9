package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func NewImportCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Import a YAML content export into the local store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := env.Importer.ImportCorpus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return env.Reporter.Message("Imported %d documents, %d images and %d meta fields.",
				stats.Documents, stats.Images, stats.Meta)
		},
	}
}

// NewScheduleCmd runs the daily audit in the foreground until interrupted.
func NewScheduleCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run scheduled audits until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := env.Scheduler.StartScheduler(ctx); err != nil {
				return err
			}
			zerolog.Ctx(ctx).Info().Msg("scheduler running, press Ctrl+C to stop")
			<-ctx.Done()
			return nil
		},
	}
}
