package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDaemon(); err != nil {
		return err
	}
	if err := c.validateTwitter(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDaemon() error {
	if c.Daemon.DelaySeconds <= 0 {
		return errors.New("daemon.delay_seconds must be positive")
	}
	return nil
}

func (c *Config) validateTwitter() error {
	if c.Twitter.TimeoutSeconds <= 0 {
		return errors.New("twitter.timeout_seconds must be positive")
	}
	parsed, err := url.Parse(c.Twitter.BaseURL)
	if err != nil {
		return fmt.Errorf("twitter.base_url: %w", err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return fmt.Errorf("twitter.base_url must be an absolute URL, got %q", c.Twitter.BaseURL)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
