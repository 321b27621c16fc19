package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"autoavif/internal/config"
	"autoavif/internal/deps"
	"autoavif/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report directories, encoders, and external programs",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.ensureRuntime()
			if err != nil {
				return err
			}
			cfg := rt.cfg
			p := newCheckPrinter(cmd.OutOrStdout())

			p.section("Settings")
			p.line("Config", stateInfo, ctx.configPath)
			p.line("AVIF enabled", stateInfo, yesNo(cfg.AVIF.Enabled))
			p.line("Engine", stateInfo, rt.generator.Engine().Name())
			p.line("Quality / speed", stateInfo, fmt.Sprintf("%d / %d", cfg.AVIF.Quality, cfg.AVIF.Speed))
			p.line("Backfill existing", stateInfo, yesNo(cfg.AVIF.CreateForExisting))
			if cfg.Images.Engine == config.EngineRaster {
				p.line("Codec backend", stateInfo, rt.raster.Backend())
			}

			failed := 0
			p.section("Preflight")
			for _, res := range preflight.RunAll(cmd.Context(), cfg, rt.raster, rt.magick) {
				state := stateOK
				if !res.Passed {
					state = stateFail
					failed++
				}
				p.line(res.Name, state, res.Detail)
			}

			p.section("Programs")
			required := cfg.Images.Engine == config.EngineImagick
			for _, status := range deps.CheckBinaries([]deps.Requirement{deps.MagickRequirement(cfg.Images.MagickBinary, required)}) {
				switch {
				case status.Available:
					p.line(status.Name, stateOK, status.Detail)
				case status.Optional:
					p.line(status.Name, stateWarn, status.Detail+" (optional)")
				default:
					p.line(status.Name, stateFail, status.Detail)
					failed++
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}
}
