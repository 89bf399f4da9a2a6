// Package cli implements the kinfit command line.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/kinfit/pkg/config"
	"github.com/GoSim-25-26J-441/kinfit/pkg/logger"
)

// app carries state shared by the subcommands of one invocation
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg *config.Config
}

// NewRootCommand builds the kinfit command tree
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "kinfit",
		Short: "Fit catalytic rate-law parameters to experimental data",
		Long: `kinfit estimates the parameters of a catalytic rate law (Hougen-Watson
or Mars-van Krevelen) by minimizing the RMS relative deviation between
observed and predicted rates, inside box constraints.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML config file (defaults apply when empty)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format (text or json)")

	root.AddCommand(
		newFitCmd(a),
		newCompareCmd(a),
		newModelsCmd(a),
		newDatasetsCmd(a),
		newServeCmd(a),
	)
	return root
}

// Execute runs the command line and exits non-zero on error
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the config and installs the default logger
func (a *app) setup(logOut io.Writer) error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.LoadConfig(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		cfg.LogFormat = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.SetDefault(logger.NewWithFormat(cfg.LogLevel, cfg.LogFormat, logOut))
	a.cfg = cfg
	return nil
}
