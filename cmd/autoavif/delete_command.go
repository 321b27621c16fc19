package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	var keepOriginal bool

	cmd := &cobra.Command{
		Use:   "delete <source>",
		Short: "Delete an image with all of its variants and AVIF siblings",
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
			res, err := rt.generator.Store().DeleteAll(cmd.Context(), src, keepOriginal)
			if err != nil {
				return fmt.Errorf("delete %s: %w", src.Basename(), err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Removed %d file(s)\n", len(res.Removed))
			for _, path := range res.Failed {
				fmt.Fprintf(out, "Failed to remove %s\n", path)
			}
			if len(res.Failed) > 0 {
				return fmt.Errorf("%d file(s) could not be removed", len(res.Failed))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepOriginal, "keep-original", false, "Delete only the variants, keeping the source image")
	return cmd
}
