// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/katalvlaran/pinegrid/grid"
	"github.com/katalvlaran/pinegrid/internal/drellyan"
	"github.com/katalvlaran/pinegrid/subgrid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) dyCmd() *cobra.Command {
	var (
		calls        int
		dynamic      bool
		kind         string
		seed1, seed2 uint64
		paramsPath   string
		output       string
	)
	cmd := &cobra.Command{
		Use:   "dy",
		Short: "Fill a grid with LO photon-photon Drell-Yan events",
		Long: `Generates γγ → ℓ⁺ℓ⁻ events at √s = 7 TeV inside the Z-peak window
(60 < m_ll < 120 GeV, p_T > 14 GeV, |y| < 2.4) and fills a grid binned in
|y_ll| from 0 to 2.4 in steps of 0.1.

Example:
  pinegrid dy --calls 500000 --dynamic -o dy.grid`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := subgrid.ParseKind(kind)
			if err != nil {
				return err
			}
			p, err := loadParams(paramsPath, drellyan.Params())
			if err != nil {
				return err
			}
			g, err := grid.New(drellyan.Lumis(), drellyan.Orders(), drellyan.BinLimits(), p, k, grid.WithLogger(a.log))
			if err != nil {
				return err
			}

			events := drellyan.NewGenerator(seed1, seed2, dynamic).Generate(calls)
			if err := g.FillEvents(cmd.Context(), events); err != nil {
				return err
			}
			a.log.Info("events generated", zap.Int("calls", calls), zap.Int("accepted", len(events)))

			return a.writeGrid(output, g)
		},
	}
	cmd.Flags().IntVar(&calls, "calls", 100000, "phase-space points to generate")
	cmd.Flags().BoolVar(&dynamic, "dynamic", false, fmt.Sprintf("use Q² = m_ll² instead of %g", drellyan.StaticQ2))
	cmd.Flags().StringVar(&kind, "kind", subgrid.KindLagrangeV2.String(), "subgrid strategy")
	cmd.Flags().Uint64Var(&seed1, "seed1", drellyan.DefaultSeed1, "PCG seed, first word")
	cmd.Flags().Uint64Var(&seed2, "seed2", drellyan.DefaultSeed2, "PCG seed, second word")
	cmd.Flags().StringVar(&paramsPath, "params", "", "YAML interpolation parameters")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output grid file")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
