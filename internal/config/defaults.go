package config

import "time"

const (
	EngineRaster  = "raster"
	EngineImagick = "imagick"
)

const (
	defaultQuality              = 70
	defaultSpeed                = 6
	defaultEncodeTimeoutSeconds = 60
	defaultEngine               = EngineRaster
	defaultMagickBinary         = "magick"
	defaultVariantQuality       = 90
	defaultLogDir               = "~/.local/share/autoavif/logs"
	defaultStateDir             = "~/.local/share/autoavif"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		AVIF: AVIF{
			Enabled:              true,
			Quality:              defaultQuality,
			Speed:                defaultSpeed,
			CreateForExisting:    false,
			EncodeTimeoutSeconds: defaultEncodeTimeoutSeconds,
		},
		Images: Images{
			Engine:         defaultEngine,
			MagickBinary:   defaultMagickBinary,
			VariantQuality: defaultVariantQuality,
		},
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// EncodeTimeout returns the per-encode time allowance.
func (a AVIF) EncodeTimeout() time.Duration {
	return time.Duration(a.EncodeTimeoutSeconds) * time.Second
}
