package commands

import (
	"github.com/spf13/cobra"
)

func NewDashboardCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the site summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			summary, err := env.Ops.Summary(cmd.Context())
			if err != nil {
				return err
			}
			return env.Reporter.Dashboard(summary)
		},
	}
}

func NewActivityCmd(env *Env) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent audits and generated content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			feed, err := env.Ops.Activity(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return env.Reporter.Activity(feed)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of entries to show")
	return cmd
}
