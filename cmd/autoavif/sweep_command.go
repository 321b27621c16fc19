package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"autoavif/internal/sweep"
)

func newSweepCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sweep <dir>",
		Short: "Create missing AVIF siblings for every variant under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.ensureRuntime()
			if err != nil {
				return err
			}
			root, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve %s: %w", args[0], err)
			}
			sweeper := sweep.New(rt.generator, rt.cfg.Paths.StateDir, rt.logger)
			report, err := sweeper.Run(cmd.Context(), root, sweep.Options{DryRun: dryRun})
			if err != nil {
				return fmt.Errorf("sweep: %w", err)
			}

			rows := [][]string{
				{"Sources", fmt.Sprint(report.Sources)},
				{"Variants", fmt.Sprint(report.Variants)},
				{"With AVIF", fmt.Sprint(report.Present)},
				{"Missing AVIF", fmt.Sprint(report.Missing)},
			}
			if !dryRun {
				rows = append(rows,
					[]string{"Backfilled", fmt.Sprint(report.Backfilled)},
					[]string{"Failed", fmt.Sprint(report.Failed)},
				)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]column{{title: "Sweep"}, {title: "Count", numeric: true}}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only count missing siblings")
	return cmd
}
