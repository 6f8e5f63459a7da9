package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func NewAuditCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Run and inspect SEO audits",
	}

	cmd.AddCommand(newAuditRunCmd(env))
	cmd.AddCommand(newAuditListCmd(env))
	cmd.AddCommand(newAuditShowCmd(env))
	cmd.AddCommand(newAuditExportCmd(env))
	return cmd
}

func newAuditRunCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Audit the site and store the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			run, err := env.Ops.RunAudit(cmd.Context())
			if err != nil {
				return err
			}
			return env.Reporter.Audit(run)
		},
	}
}

func newAuditListCmd(env *Env) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent audits, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runs, err := env.Ops.ListAudits(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return env.Reporter.Audits(runs)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of audits to list")
	return cmd
}

func newAuditShowCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a stored audit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			run, err := env.Ops.GetAudit(cmd.Context(), id)
			if err != nil {
				return err
			}
			return env.Reporter.Audit(run)
		},
	}
}

func newAuditExportCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "export [id|latest]",
		Short: "Export an audit to the configured archive",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id int64
			if len(args) == 1 && args[0] != "latest" {
				var err error
				if id, err = parseID(args[0]); err != nil {
					return err
				}
			}
			loc, err := env.Ops.ExportAudit(cmd.Context(), id)
			if err != nil {
				return err
			}
			return env.Reporter.Message("Audit exported to %s", loc)
		},
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
