package avif

import (
	"fmt"
	"time"

	"autoavif/internal/config"
	"autoavif/internal/services"
)

// Settings is the immutable lifecycle configuration.
type Settings struct {
	Enabled           bool
	Quality           int
	Speed             int
	CreateForExisting bool
	EncodeTimeout     time.Duration
}

// DefaultSettings mirrors the configuration defaults.
func DefaultSettings() Settings {
	return SettingsFromConfig(nil)
}

// SettingsFromConfig extracts lifecycle settings. A nil config yields defaults.
func SettingsFromConfig(cfg *config.Config) Settings {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	return Settings{
		Enabled:           cfg.AVIF.Enabled,
		Quality:           cfg.AVIF.Quality,
		Speed:             cfg.AVIF.Speed,
		CreateForExisting: cfg.AVIF.CreateForExisting,
		EncodeTimeout:     cfg.AVIF.EncodeTimeout(),
	}
}

// Validate checks the encoder bounds.
func (s Settings) Validate() error {
	if s.Quality < 1 || s.Quality > 100 {
		return services.Wrap(services.ErrConfiguration, "avif", "settings", fmt.Sprintf("quality %d outside 1-100", s.Quality), nil)
	}
	if s.Speed < 0 || s.Speed > 9 {
		return services.Wrap(services.ErrConfiguration, "avif", "settings", fmt.Sprintf("speed %d outside 0-9", s.Speed), nil)
	}
	if s.EncodeTimeout <= 0 {
		return services.Wrap(services.ErrConfiguration, "avif", "settings", "encode timeout must be positive", nil)
	}
	return nil
}

// Params returns the encoder parameters.
func (s Settings) Params() Params {
	return Params{Quality: s.Quality, Speed: s.Speed}
}
