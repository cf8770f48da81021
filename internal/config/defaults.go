package config

const (
	defaultConfigPath   = "~/.config/layerpage/config.toml"
	defaultImagesDir    = "images"
	defaultAssetWorkers = 4
	defaultHistoryPath  = "~/.local/share/layerpage/history.db"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Build: Build{
			Images:       defaultImagesDir,
			AssetWorkers: defaultAssetWorkers,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
