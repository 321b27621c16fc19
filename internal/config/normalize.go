package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeAVIF(); err != nil {
		return err
	}
	c.normalizeImages()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeAVIF() error {
	if value, ok := os.LookupEnv("AUTOAVIF_ENABLED"); ok && strings.TrimSpace(value) != "" {
		enabled, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("AUTOAVIF_ENABLED: %w", err)
		}
		c.AVIF.Enabled = enabled
	}
	if c.AVIF.EncodeTimeoutSeconds <= 0 {
		c.AVIF.EncodeTimeoutSeconds = defaultEncodeTimeoutSeconds
	}
	return nil
}

func (c *Config) normalizeImages() {
	c.Images.Engine = strings.ToLower(strings.TrimSpace(c.Images.Engine))
	switch c.Images.Engine {
	case "":
		c.Images.Engine = defaultEngine
	case "gd":
		c.Images.Engine = EngineRaster
	case "imagemagick", "magick":
		c.Images.Engine = EngineImagick
	}
	c.Images.MagickBinary = strings.TrimSpace(c.Images.MagickBinary)
	if c.Images.MagickBinary == "" {
		c.Images.MagickBinary = defaultMagickBinary
	}
	if c.Images.VariantQuality <= 0 {
		c.Images.VariantQuality = defaultVariantQuality
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
