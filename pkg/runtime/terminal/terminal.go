package terminal

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/seo-atlas/pkg/runtime/app"
	"github.com/de-tools/seo-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/seo-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/seo-atlas/pkg/services/config"
)

// Opener builds the services commands run against from the loaded configuration.
type Opener func(ctx context.Context, cfg config.Config) (commands.Env, io.Closer, error)

// OpenApp is the default Opener backed by the local DuckDB store.
func OpenApp(ctx context.Context, cfg config.Config) (commands.Env, io.Closer, error) {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return commands.Env{}, nil, err
	}
	return commands.Env{Ops: a.Operations, Importer: a, Scheduler: a}, a, nil
}

// CLI represents the command-line interface
type CLI struct {
	open     Opener
	env      *commands.Env
	closer   io.Closer
	reporter *export.Reporter
	errOut   io.Writer
	rootCmd  *cobra.Command

	cfgPath  string
	format   string
	logLevel string
}

// Options contain configuration for the CLI
type Options struct {
	Open   Opener
	Output io.Writer
	// ErrOutput receives logs (default: os.Stderr)
	ErrOutput io.Writer
}

func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOutput == nil {
		opts.ErrOutput = os.Stderr
	}
	if opts.Open == nil {
		opts.Open = OpenApp
	}

	reporter := export.NewReporter(opts.Output)
	cli := &CLI{
		open:     opts.Open,
		env:      &commands.Env{Reporter: reporter},
		reporter: reporter,
		errOut:   opts.ErrOutput,
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	cli.rootCmd.SetErr(opts.ErrOutput)
	return cli
}

func (cli *CLI) Execute(ctx context.Context) error {
	err := cli.rootCmd.ExecuteContext(ctx)
	if cli.closer != nil {
		if closeErr := cli.closer.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		cli.closer = nil
	}
	return err
}

func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "seo-atlas",
		Short:             "SEO audits, AI fixes and content generation",
		SilenceUsage:      true,
		PersistentPreRunE: cli.setup,
	}

	cmd.PersistentFlags().StringVarP(&cli.cfgPath, "config", "c", "", "Path to the configuration file (default ./seo-atlas.yaml)")
	cmd.PersistentFlags().StringVarP(&cli.format, "output", "o", string(export.FormatText), "Output format: text or json")
	cmd.PersistentFlags().StringVar(&cli.logLevel, "log-level", "", "Log level override")

	cmd.AddCommand(commands.NewAuditCmd(cli.env))
	cmd.AddCommand(commands.NewFixCmd(cli.env))
	cmd.AddCommand(commands.NewContentCmd(cli.env))
	cmd.AddCommand(commands.NewLicenseCmd(cli.env))
	cmd.AddCommand(commands.NewDashboardCmd(cli.env))
	cmd.AddCommand(commands.NewActivityCmd(cli.env))
	cmd.AddCommand(commands.NewImportCmd(cli.env))
	cmd.AddCommand(commands.NewScheduleCmd(cli.env))

	return cmd
}

func (cli *CLI) setup(cmd *cobra.Command, _ []string) error {
	if err := cli.reporter.SetFormat(export.Format(cli.format)); err != nil {
		return err
	}

	cfg, err := config.Load(cmd.Context(), cli.cfgPath)
	if err != nil {
		return err
	}

	levelName := cfg.LogLevel
	if cli.logLevel != "" {
		levelName = cli.logLevel
	}
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", levelName, err)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cli.errOut}).Level(level).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())
	cmd.SetContext(ctx)

	env, closer, err := cli.open(ctx, cfg)
	if err != nil {
		return err
	}
	cli.env.Ops = env.Ops
	cli.env.Importer = env.Importer
	cli.env.Scheduler = env.Scheduler
	cli.closer = closer
	return nil
}
