// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"time"

	"github.com/katalvlaran/pinegrid/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) storeCmd() *cobra.Command {
	var dbPath, name string
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Keep partial runs in a SQLite database",
		Long: `Stores the subgrids of partial runs and merges them later.

Subcommands:
  put    - store every filled subgrid of a grid file as one run
  list   - list the stored runs of a grid name
  merge  - merge all runs into an emptied copy of a template grid`,
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "pinegrid.db", "SQLite database file")
	cmd.PersistentFlags().StringVar(&name, "name", "", "grid name")
	_ = cmd.MarkPersistentFlagRequired("name")

	open := func(cmd *cobra.Command) (*store.Store, error) {
		return store.Open(cmd.Context(), dbPath, store.WithLogger(a.log))
	}

	put := &cobra.Command{
		Use:   "put <grid>",
		Short: "Store the filled subgrids of a grid file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.readGrid(args[0])
			if err != nil {
				return err
			}
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := s.PutGrid(cmd.Context(), name, g)
			if err != nil {
				return err
			}
			a.log.Info("runs stored", zap.String("name", name), zap.Int("subgrids", n))
			fmt.Fprintf(cmd.OutOrStdout(), "stored %d subgrids under %q\n", n, name)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			recs, err := s.List(cmd.Context(), name)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range recs {
				fmt.Fprintf(out, "%s  order=%d bin=%d lumi=%d  %-22v %s\n",
					r.ID, r.Key.Order, r.Key.Bin, r.Key.Lumi, r.Kind, r.Created.UTC().Format(time.RFC3339))
			}
			return nil
		},
	}

	var template, output string
	merge := &cobra.Command{
		Use:   "merge",
		Short: "Merge stored runs into a grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.readGrid(template)
			if err != nil {
				return err
			}
			g.Scale(0)

			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.MergeInto(cmd.Context(), name, g); err != nil {
				return err
			}
			return a.writeGrid(output, g)
		},
	}
	merge.Flags().StringVar(&template, "template", "", "grid file providing orders, channels and bins")
	merge.Flags().StringVarP(&output, "output", "o", "", "output grid file")
	_ = merge.MarkFlagRequired("template")
	_ = merge.MarkFlagRequired("output")

	cmd.AddCommand(put, list, merge)

	return cmd
}
