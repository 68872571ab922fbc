package testsupport

import (
	"path/filepath"
	"testing"

	"tweetr/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	cfg *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ConfigDir = filepath.Join(base, "tweetr")
	cfgVal.Paths.LogDir = filepath.Join(base, "tweetr", "logs")
	cfgVal.Daemon.DelaySeconds = 1
	cfgVal.Twitter.BaseURL = "http://127.0.0.1:0"
	cfgVal.History.Path = filepath.Join(base, "tweetr", "history.db")

	builder := &configBuilder{cfg: &cfgVal}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBaseURL points the Twitter client at a test server.
func WithBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Twitter.BaseURL = url
	}
}

// WithoutHistory disables the post attempt journal.
func WithoutHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}
