package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths locates the configuration directory holding app.toml, users.toml and
// tweets.toml, plus the daemon's log directory.
type Paths struct {
	ConfigDir string `toml:"config_dir"`
	LogDir    string `toml:"log_dir"`
}

// Daemon contains the polling loop settings.
type Daemon struct {
	DelaySeconds int  `toml:"delay_seconds"`
	Verbose      bool `toml:"verbose"`
}

// Twitter contains the API endpoint settings.
type Twitter struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// History controls the post attempt journal.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Config encapsulates all configuration values for tweetr.
//
// Configuration sections by subsystem:
//   - Paths: configuration directory and log directory
//   - Daemon: delay between polling cycles
//   - Twitter: API base URL and request timeout
//   - Logging: log format, level, and retention
//   - History: SQLite journal of post attempts
type Config struct {
	Paths   Paths   `toml:"paths"`
	Daemon  Daemon  `toml:"daemon"`
	Twitter Twitter `toml:"twitter"`
	Logging Logging `toml:"logging"`
	History History `toml:"history"`

	derivedLogDir  bool
	derivedHistory bool
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/tweetr/config.toml")
}

// Load locates, parses, and validates a configuration file. A missing file yields
// defaults. The returned config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("tweetr.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// SetConfigDir points the config at another configuration directory. Log and
// history locations that were derived from the previous directory follow it.
func (c *Config) SetConfigDir(dir string) error {
	expanded, err := expandPath(strings.TrimSpace(dir))
	if err != nil {
		return fmt.Errorf("config dir: %w", err)
	}
	if expanded == "" {
		return errors.New("config dir must not be empty")
	}
	c.Paths.ConfigDir = expanded
	if c.derivedLogDir {
		c.Paths.LogDir = filepath.Join(expanded, defaultLogDirName)
	}
	if c.derivedHistory {
		c.History.Path = filepath.Join(expanded, defaultHistoryName)
	}
	return nil
}

// EnsureDirectories creates the configuration and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ConfigDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DaemonDelay returns the sleep between daemon cycles.
func (c *Config) DaemonDelay() time.Duration {
	return time.Duration(c.Daemon.DelaySeconds) * time.Second
}

// TwitterTimeout returns the per-request timeout for Twitter API calls.
func (c *Config) TwitterTimeout() time.Duration {
	return time.Duration(c.Twitter.TimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
