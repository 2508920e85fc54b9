package main

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/iwvelando/calckit/internal/config"
	"github.com/iwvelando/calckit/pkg/constants"
	"github.com/iwvelando/calckit/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the global flags and the state built from them before any
// subcommand runs.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath   string
	outputFormat string
	logLevel     string

	conf   *config.Configuration
	logger *zap.Logger
	format string
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "calckit",
		Short: "Calculator toolkit for dates, loans, units and finance",
		Long: `calckit runs closed-form calculators from the command line:
date differences and ages, loan amortization, unit and currency
conversion, compound interest, NPV and ROI. The serve command exposes
the same calculators as a JSON HTTP API.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	root.PersistentFlags().StringVar(&a.outputFormat, "output-format", "", "type of output override: pretty, csv, json")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		a.amortizeCommand(),
		a.loanCommand(),
		a.dateDiffCommand(),
		a.ageCommand(),
		a.convertCommand(),
		a.currencyCommand(),
		a.compoundCommand(),
		a.npvCommand(),
		a.roiCommand(),
		a.factorialCommand(),
		a.sqrtCommand(),
		a.percentCommand(),
		a.serveCommand(),
	)
	return root
}

// setup loads the configuration, builds the logger and settles the output
// format. A missing config file is only an error when --config was given.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	path := a.configPath
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	conf, err := config.LoadConfiguration(path)
	if err != nil {
		return err
	}
	a.conf = conf

	logger, err := initializeLogger(conf.Logging, a.logLevel)
	if err != nil {
		return err
	}
	a.logger = logger

	// CLI override takes precedence over config
	a.format = conf.Output.Format
	if a.outputFormat != "" {
		a.format = a.outputFormat
	}
	if a.format == "" {
		a.format = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(a.format); err != nil {
		return err
	}

	a.logger.Debug("configuration loaded",
		zap.String("op", "main.setup"),
		zap.String("config", path),
		zap.String("output_format", a.format),
	)
	return nil
}
