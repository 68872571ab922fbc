package main

import (
	"context"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"tweetr/internal/config"
	"tweetr/internal/services/twitter"
)

// twitterClient is the slice of the API client the commands use.
type twitterClient interface {
	twitter.Submitter
	BeginAuthorization(app twitter.Token) (twitter.PendingAuthorization, error)
	CompleteAuthorization(ctx context.Context, app twitter.Token, pending twitter.PendingAuthorization, pin string) (twitter.Authorized, error)
}

type commandContext struct {
	configFlag    *string
	configDirFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	newClient func(cfg *config.Config) twitterClient
}

func newCommandContext(configFlag, configDirFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		configDirFlag: configDirFlag,
		newClient:     defaultTwitterClient,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.configDirFlag != nil && strings.TrimSpace(*c.configDirFlag) != "" {
			if err := cfg.SetConfigDir(*c.configDirFlag); err != nil {
				c.configErr = err
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) configDir() (string, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	return cfg.Paths.ConfigDir, nil
}

func (c *commandContext) twitterClient() (twitterClient, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return c.newClient(cfg), nil
}

func defaultTwitterClient(cfg *config.Config) twitterClient {
	return twitter.NewClient(twitter.Config{
		BaseURL:        cfg.Twitter.BaseURL,
		TimeoutSeconds: cfg.Twitter.TimeoutSeconds,
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
