package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"autoavif/internal/avif"
	"autoavif/internal/config"
	"autoavif/internal/encoder"
	"autoavif/internal/hooks"
	"autoavif/internal/imaging"
	"autoavif/internal/logging"
	"autoavif/internal/magick"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	runtimeOnce sync.Once
	runtime     *runtime
	runtimeErr  error
}

// runtime is the wired host: a registry shared by the generator, the store,
// and the lifecycle manager.
type runtime struct {
	cfg       *config.Config
	logger    *slog.Logger
	registry  *hooks.Registry
	generator *imaging.Generator
	manager   *avif.Manager
	raster    *encoder.Raster
	magick    *encoder.Magick
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureRuntime() (*runtime, error) {
	c.runtimeOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.runtimeErr = err
			return
		}
		c.runtime, c.runtimeErr = buildRuntime(cfg, c.verboseFlag != nil && *c.verboseFlag)
	})
	return c.runtime, c.runtimeErr
}

func buildRuntime(cfg *config.Config, verbose bool) (*runtime, error) {
	logger, err := logging.NewFromConfig(cfg, verbose)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	client := magick.NewClient(magick.WithBinary(cfg.Images.MagickBinary))
	rt := &runtime{
		cfg:      cfg,
		logger:   logger,
		registry: hooks.NewRegistry(logger),
		raster:   encoder.NewRaster(),
		magick:   encoder.NewMagick(client),
	}

	var engine imaging.Engine = imaging.NewRaster()
	if cfg.Images.Engine == config.EngineImagick {
		engine = imaging.NewMagick(client)
	}
	rt.generator = imaging.NewGenerator(rt.registry, engine,
		imaging.WithQuality(cfg.Images.VariantQuality),
		imaging.WithLogger(logger),
	)

	manager, err := avif.New(avif.SettingsFromConfig(cfg),
		avif.WithRasterEncoder(rt.raster),
		avif.WithMagickEncoder(rt.magick),
		avif.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	manager.Attach(rt.registry, rt.generator)
	rt.manager = manager
	return rt, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
