package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"autoavif/internal/avif"
	"autoavif/internal/fileutil"
	"autoavif/internal/variant"
)

func newSizeCommand(ctx *commandContext) *cobra.Command {
	var width, height int
	var options []string
	var admin bool
	var field, record string

	cmd := &cobra.Command{
		Use:   "size <source>",
		Short: "Produce (or return) a resized variant of an image",
		Long: "Produce a resized variant next to the source image. Existing variants are served from disk\n" +
			"unless -o forceNew is given. Options accept key=value pairs, a bare quality number,\n" +
			"true/false for cropping, or a gravity word such as north.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.ensureRuntime()
			if err != nil {
				return err
			}
			src, err := resolveSource(args[0], field, record)
			if err != nil {
				return err
			}
			req := variant.Request{
				Source:  src,
				Width:   width,
				Height:  height,
				Options: parseOptionFlags(options),
				Admin:   admin,
			}
			v, err := rt.generator.Size(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("size %s: %w", src.Basename(), err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Variant: %s (%s)\n", v.Path, fileutil.FormatBytes(uint64(fileutil.FileSize(v.Path))))
			sibling := avif.SiblingFor(*v)
			if fileutil.IsFile(sibling) {
				fmt.Fprintf(out, "AVIF:    %s (%s)\n", sibling, fileutil.FormatBytes(uint64(fileutil.FileSize(sibling))))
			} else {
				fmt.Fprintln(out, "AVIF:    none")
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&width, "width", "W", 0, "Target width in pixels (0 for auto)")
	cmd.Flags().IntVarP(&height, "height", "H", 0, "Target height in pixels (0 for auto)")
	cmd.Flags().StringArrayVarP(&options, "option", "o", nil, "Variant option (repeatable), e.g. cropping=north or forceNew")
	cmd.Flags().BoolVar(&admin, "admin", false, "Treat the request as coming from the editing UI")
	cmd.Flags().StringVar(&field, "field", "", "Owning field name passed to the eligibility filter")
	cmd.Flags().StringVar(&record, "record", "", "Owning record identifier passed to the eligibility filter")
	return cmd
}
