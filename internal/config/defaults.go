package config

const (
	defaultConfigDir      = "~/.tweetr"
	defaultDelaySeconds   = 60
	defaultTwitterBaseURL = "https://api.twitter.com"
	defaultTwitterTimeout = 30
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultRetentionDays  = 30
	defaultLogDirName     = "logs"
	defaultHistoryName    = "history.db"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ConfigDir: defaultConfigDir,
		},
		Daemon: Daemon{
			DelaySeconds: defaultDelaySeconds,
		},
		Twitter: Twitter{
			BaseURL:        defaultTwitterBaseURL,
			TimeoutSeconds: defaultTwitterTimeout,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultRetentionDays,
		},
		History: History{
			Enabled: true,
		},
	}
}
