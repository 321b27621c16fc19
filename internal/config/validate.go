package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAVIF(); err != nil {
		return err
	}
	if err := c.validateImages(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAVIF() error {
	if c.AVIF.Quality < 1 || c.AVIF.Quality > 100 {
		return fmt.Errorf("avif.quality must be between 1 and 100 (got %d)", c.AVIF.Quality)
	}
	if c.AVIF.Speed < 0 || c.AVIF.Speed > 9 {
		return fmt.Errorf("avif.speed must be between 0 and 9 (got %d)", c.AVIF.Speed)
	}
	if c.AVIF.EncodeTimeoutSeconds <= 0 {
		return errors.New("avif.encode_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateImages() error {
	switch c.Images.Engine {
	case EngineRaster, EngineImagick:
	default:
		return fmt.Errorf("images.engine must be %q or %q (got %q)", EngineRaster, EngineImagick, c.Images.Engine)
	}
	if c.Images.VariantQuality < 1 || c.Images.VariantQuality > 100 {
		return fmt.Errorf("images.variant_quality must be between 1 and 100 (got %d)", c.Images.VariantQuality)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	return nil
}
