package config

const (
	defaultConfigPath        = "~/.config/media-extract/config.toml"
	projectConfigName        = "extract.toml"
	defaultLocale            = "zh"
	defaultFFprobeBinary     = "ffprobe"
	defaultFFprobeTimeout    = 5
	defaultGeoBaseURL        = "https://nominatim.openstreetmap.org"
	defaultGeoUserAgent      = "AstrBot-ExtractPlugin/1.0.0"
	defaultGeoTimeout        = 10
	defaultFetchTimeout      = 30
	defaultLogLevel          = "info"
	defaultEnableGeoResolver = false
)

var defaultExtractTypes = []string{"image", "audio", "video"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		ExtractTypes:      append([]string(nil), defaultExtractTypes...),
		EnableGeoResolver: defaultEnableGeoResolver,
		Locale:            defaultLocale,
		FFprobe: FFprobe{
			Binary:         defaultFFprobeBinary,
			TimeoutSeconds: defaultFFprobeTimeout,
		},
		Geo: Geo{
			BaseURL:        defaultGeoBaseURL,
			UserAgent:      defaultGeoUserAgent,
			TimeoutSeconds: defaultGeoTimeout,
		},
		Fetch: Fetch{
			TimeoutSeconds: defaultFetchTimeout,
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
	}
}
