package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTwitter()
	c.normalizeLogging()
	return c.normalizeHistory()
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("TWEETR_CONFIG_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.ConfigDir = value
	}
	if strings.TrimSpace(c.Paths.ConfigDir) == "" {
		c.Paths.ConfigDir = defaultConfigDir
	}
	var err error
	if c.Paths.ConfigDir, err = expandPath(strings.TrimSpace(c.Paths.ConfigDir)); err != nil {
		return fmt.Errorf("paths.config_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.ConfigDir, defaultLogDirName)
		c.derivedLogDir = true
		return nil
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTwitter() {
	if value, ok := os.LookupEnv("TWEETR_API_BASE_URL"); ok && strings.TrimSpace(value) != "" {
		c.Twitter.BaseURL = value
	}
	c.Twitter.BaseURL = strings.TrimRight(strings.TrimSpace(c.Twitter.BaseURL), "/")
	if c.Twitter.BaseURL == "" {
		c.Twitter.BaseURL = defaultTwitterBaseURL
	}
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
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

func (c *Config) normalizeHistory() error {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = filepath.Join(c.Paths.ConfigDir, defaultHistoryName)
		c.derivedHistory = true
		return nil
	}
	var err error
	if c.History.Path, err = expandPath(strings.TrimSpace(c.History.Path)); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}
