// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/katalvlaran/pinegrid/grid"
	"github.com/katalvlaran/pinegrid/internal/drellyan"
	"github.com/spf13/cobra"
)

func (a *app) convoluteCmd() *cobra.Command {
	var xir, xif float64
	cmd := &cobra.Command{
		Use:   "convolute <grid>",
		Short: "Convolute a grid with the built-in toy photon PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.readGrid(args[0])
			if err != nil {
				return err
			}
			xs, err := g.Convolute(drellyan.PhotonPDF, drellyan.PhotonPDF, drellyan.ZeroAlphas, grid.Mask{}, xir, xif)
			if err != nil {
				return err
			}

			limits := g.BinLimits()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-4s %-10s %-10s %s\n", "bin", "left", "right", "dσ/dx")
			for i, v := range xs {
				fmt.Fprintf(out, "%-4d %-10g %-10g %.7e\n", i, limits[i], limits[i+1], v)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&xir, "xir", 1, "renormalisation scale factor")
	cmd.Flags().Float64Var(&xif, "xif", 1, "factorisation scale factor")

	return cmd
}

func (a *app) mergeCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "merge <grid> <grid>...",
		Short: "Merge grids of partial runs into one",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := a.readGrid(args[0])
			if err != nil {
				return err
			}
			for _, path := range args[1:] {
				g, err := a.readGrid(path)
				if err != nil {
					return err
				}
				if err := acc.Merge(g); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}
			return a.writeGrid(output, acc)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output grid file")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (a *app) scaleCmd() *cobra.Command {
	var (
		output                       string
		factor                       float64
		alphas, alpha, logxir, logxif float64
		byOrder                      bool
	)
	cmd := &cobra.Command{
		Use:   "scale <grid>",
		Short: "Multiply a grid by a factor, optionally per coupling order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.readGrid(args[0])
			if err != nil {
				return err
			}
			if byOrder {
				g.ScaleByOrder(alphas, alpha, logxir, logxif, factor)
			} else {
				g.Scale(factor)
			}
			return a.writeGrid(output, g)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output grid file")
	cmd.Flags().Float64Var(&factor, "factor", 1, "global factor")
	cmd.Flags().BoolVar(&byOrder, "by-order", false, "also apply the per-order coupling factors")
	cmd.Flags().Float64Var(&alphas, "alphas", 1, "factor per power of αs")
	cmd.Flags().Float64Var(&alpha, "alpha", 1, "factor per power of α")
	cmd.Flags().Float64Var(&logxir, "logxir", 1, "factor per power of ln(ξ_R²)")
	cmd.Flags().Float64Var(&logxif, "logxif", 1, "factor per power of ln(ξ_F²)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (a *app) optimizeCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "optimize <grid>",
		Short: "Convert every subgrid to its most compact representation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.readGrid(args[0])
			if err != nil {
				return err
			}
			if err := g.Optimize(); err != nil {
				return err
			}
			return a.writeGrid(output, g)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output grid file")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <grid>",
		Short: "Print the structure of a grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.readGrid(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			p := g.Params()
			fmt.Fprintf(out, "kind:     %v\n", g.Kind())
			fmt.Fprintf(out, "bins:     %d in [%g, %g]\n", g.Bins(), g.BinLimits()[0], g.BinLimits()[g.Bins()])
			fmt.Fprintf(out, "q2:       %d nodes in [%g, %g], order %d\n", p.Q2.Bins, p.Q2.Min, p.Q2.Max, p.Q2.Order)
			fmt.Fprintf(out, "x1:       %d nodes in [%g, %g], order %d\n", p.X1.Bins, p.X1.Min, p.X1.Max, p.X1.Order)
			fmt.Fprintf(out, "x2:       %d nodes in [%g, %g], order %d\n", p.X2.Bins, p.X2.Min, p.X2.Max, p.X2.Order)
			fmt.Fprintf(out, "reweight: %v\n", p.Reweight)
			for i, o := range g.Orders() {
				fmt.Fprintf(out, "order %d:  αs^%d α^%d ln(ξR²)^%d ln(ξF²)^%d\n", i, o.Alphas, o.Alpha, o.LogXiR, o.LogXiF)
			}
			for i, l := range g.Lumis() {
				fmt.Fprintf(out, "channel %d:", i)
				for _, t := range l.Terms {
					fmt.Fprintf(out, " %g×(%d,%d)", t.Factor, t.PID1, t.PID2)
				}
				fmt.Fprintln(out)
			}

			filled, cells := 0, 0
			for o := range g.Orders() {
				for b := 0; b < g.Bins(); b++ {
					for l := range g.Lumis() {
						sg, err := g.Subgrid(o, b, l)
						if err != nil {
							return err
						}
						if sg.IsEmpty() {
							continue
						}
						filled++
						lo, hi := sg.WindowBounds()
						n := sg.Nodes()
						cells += (hi - lo) * len(n.X1) * len(n.X2)
					}
				}
			}
			fmt.Fprintf(out, "filled:   %d subgrids, %d window cells\n", filled, cells)
			return nil
		},
	}
}
