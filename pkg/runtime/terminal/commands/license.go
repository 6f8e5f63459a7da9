package commands

import (
	"github.com/spf13/cobra"
)

func NewLicenseCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "license",
		Short: "Manage the PRO license",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "activate <key>",
		Short: "Activate a license key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := env.Ops.ActivateLicense(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return env.Reporter.License(l)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "deactivate",
		Short: "Return to the free plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := env.Ops.DeactivateLicense(cmd.Context())
			if err != nil {
				return err
			}
			return env.Reporter.License(l)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the current plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := env.Ops.License(cmd.Context())
			if err != nil {
				return err
			}
			return env.Reporter.License(l)
		},
	})
	return cmd
}
