// SPDX-License-Identifier: MIT

// Command pinegrid fills, inspects and combines interpolation grids.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries the state shared by every subcommand.
type app struct {
	verbose bool
	log     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "pinegrid",
		Short: "Interpolation grids for PDF-independent cross sections",
		Long: `pinegrid stores Monte-Carlo weights on Lagrange interpolation grids so
a cross section can be re-evaluated with any parton distributions and
couplings without rerunning the integration.

Grid files are gzip+gob encoded and versioned.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if a.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.log = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		a.dyCmd(),
		a.convoluteCmd(),
		a.mergeCmd(),
		a.scaleCmd(),
		a.optimizeCmd(),
		a.infoCmd(),
		a.storeCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
