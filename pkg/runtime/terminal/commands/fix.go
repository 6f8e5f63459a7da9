package commands

import (
	"github.com/spf13/cobra"
)

type FixCmd struct {
	env *Env
}

func NewFixCmd(env *Env) *cobra.Command {
	fc := &FixCmd{env: env}
	return &cobra.Command{
		Use:   "fix <issue_type> [id...]",
		Short: "Generate AI fixes for an issue type",
		Long: "Generate AI fixes for missing meta descriptions, missing alt text or title issues.\n" +
			"Without ids the documents or images flagged by the latest audit are targeted.",
		Args: cobra.MinimumNArgs(1),
		RunE: fc.run,
	}
}

func (fc *FixCmd) run(cmd *cobra.Command, args []string) error {
	ids := make([]int64, 0, len(args)-1)
	for _, raw := range args[1:] {
		id, err := parseID(raw)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	res, err := fc.env.Ops.FixIssues(cmd.Context(), args[0], ids)
	if err != nil {
		return err
	}
	return fc.env.Reporter.Fix(res)
}
