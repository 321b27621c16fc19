package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"autoavif/internal/fileutil"
)

func newVariationsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "variations <source>",
		Short: "List the variants of an image and their AVIF siblings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.ensureRuntime()
			if err != nil {
				return err
			}
			src, err := resolveSource(args[0], "", "")
			if err != nil {
				return err
			}
			variants, err := rt.generator.Variations(src)
			if err != nil {
				return fmt.Errorf("list variations: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(variants) == 0 {
				fmt.Fprintf(out, "No variations of %s\n", src.Basename())
				return nil
			}
			rows := make([][]string, 0, len(variants))
			for _, v := range variants {
				rows = append(rows, []string{
					v.Basename(),
					dimensions(v.Width, v.Height),
					fileutil.FormatBytes(uint64(fileutil.FileSize(v.Path))),
					siblingSummary(v),
				})
			}
			fmt.Fprintln(out, renderTable([]column{
				{title: "Variant"},
				{title: "Size"},
				{title: "Bytes", numeric: true},
				{title: "AVIF", numeric: true},
			}, rows))
			return nil
		},
	}

	cmd.AddCommand(newVariationsRemoveCommand(ctx))
	return cmd
}

func newVariationsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <source> <basename>...",
		Short: "Delete selected variants (and their AVIF siblings) by basename",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.ensureRuntime()
			if err != nil {
				return err
			}
			src, err := resolveSource(args[0], "", "")
			if err != nil {
				return err
			}
			res, err := rt.generator.Store().DeleteSelected(cmd.Context(), src, args[1:])
			if err != nil {
				return fmt.Errorf("remove variations: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Removed %d variation(s)\n", len(res.Removed))
			for _, path := range res.Failed {
				fmt.Fprintf(out, "Failed to remove %s\n", path)
			}
			return nil
		},
	}
}
