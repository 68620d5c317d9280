// Package cmd contains the metricsctl commands.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cyphera/cyphera-metrics/internal/constants"
	"github.com/cyphera/cyphera-metrics/internal/logger"
	"github.com/spf13/cobra"
)

// Version is the current version of metricsctl
var Version = "0.1.0"

type rootOptions struct {
	verbose bool
	pretty  bool
}

// NewRootCommand builds the metricsctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "metricsctl",
		Short: "Derive dashboard charts from financial metrics documents",
		Long: `metricsctl runs the chart derivation engine against a metrics document
stored on disk, without the HTTP service or a worker queue.

Examples:
  metricsctl validate metrics.json
  metricsctl derive metrics.json --date 2025-03-14 --view Monthly
  metricsctl derive metrics.json --location Calgary --currency CAD --locale en-CA`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			logger.InitLoggerWithConfig(logger.LoggerConfig{
				Level:       level,
				Stage:       constants.LocalEnvironment,
				Component:   logger.ComponentCLI,
				EnableColor: true,
			})
		},
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&opts.pretty, "pretty", false, "Indent JSON output")

	root.AddCommand(newDeriveCommand(opts), newValidateCommand(opts), newDashboardCommand(opts))
	return root
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func writeJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return raw, nil
}
