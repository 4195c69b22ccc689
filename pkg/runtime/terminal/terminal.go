package terminal

import (
	"io"
	"os"

	"github.com/de-tools/sales-atlas/pkg/logger"
	"github.com/de-tools/sales-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/sales-atlas/pkg/services/forecast"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	registry  forecast.Registry
	output    io.Writer
	logOutput io.Writer
	logLevel  string
	logFormat string
	rootCmd   *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Registry forecast.Registry
	Output   io.Writer
	// LogOutput receives diagnostics; defaults to stderr so reports stay pipeable.
	LogOutput io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	if opts.Registry == nil {
		opts.Registry = forecast.DefaultRegistry()
	}

	cli := &CLI{
		registry:  opts.Registry,
		output:    opts.Output,
		logOutput: opts.LogOutput,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// SetArgs overrides os.Args, mainly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sales-atlas",
		Short:         "Sales aggregation and forecasting tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log, err := logger.New(logger.Options{
				Level:  cli.logLevel,
				Format: cli.logFormat,
				Out:    cli.logOutput,
			})
			if err != nil {
				return err
			}
			cmd.SetContext(log.WithContext(cmd.Context()))
			return nil
		},
	}
	cmd.SetOut(cli.output)

	cmd.PersistentFlags().StringVar(&cli.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&cli.logFormat, "log-format", logger.FormatConsole, "Log format (console or json)")

	cmd.AddCommand(commands.NewAnalyzeCmd(cli.registry, cli.output))
	cmd.AddCommand(commands.NewForecastersCmd(cli.registry))
	cmd.AddCommand(commands.NewGenerateCmd())
	cmd.AddCommand(commands.NewProfilesCmd())

	return cmd
}
