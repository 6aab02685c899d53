package config

const (
	defaultConfigPath       = "~/.config/docbridge/config.toml"
	defaultStagingDir       = "~/.cache/docbridge"
	defaultLogDir           = "~/.local/share/docbridge/logs"
	defaultHistoryDB        = "~/.local/share/docbridge/history.db"
	defaultMarkitdownBinary = "markitdown"
	defaultMaxUploadBytes   = 50 * 1024 * 1024
	defaultStaleAfterHours  = 24
	defaultAPIBind          = "127.0.0.1:7488"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
			HistoryDB:  defaultHistoryDB,
		},
		Converter: Converter{
			Binary: defaultMarkitdownBinary,
		},
		Uploads: Uploads{
			MaxBytes:      defaultMaxUploadBytes,
			StaleAfterHrs: defaultStaleAfterHours,
		},
		API: API{
			Bind: defaultAPIBind,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
