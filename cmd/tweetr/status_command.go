package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"tweetr/internal/daemon"
	"tweetr/internal/history"
	"tweetr/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report configuration directory readiness and daemon state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			var lines []string

			lines = append(lines, renderSectionHeader("Configuration", colorize)...)
			configSource := ctx.configPath
			if !ctx.configSeen {
				configSource = "defaults (no " + ctx.configPath + ")"
			}
			lines = append(lines,
				renderStatusLine("Config file", statusInfo, configSource, colorize),
				renderStatusLine("API base URL", statusInfo, cfg.Twitter.BaseURL, colorize),
			)

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Files", colorize)...)
			for _, result := range preflight.RunAll(cfg.Paths.ConfigDir) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Daemon", colorize)...)
			running, err := daemonRunning(cfg.Paths.ConfigDir)
			switch {
			case err != nil:
				lines = append(lines, renderStatusLine("Daemon", statusWarn, err.Error(), colorize))
			case running:
				lines = append(lines, renderStatusLine("Daemon", statusOK, "running", colorize))
			default:
				lines = append(lines, renderStatusLine("Daemon", statusInfo, "not running", colorize))
			}
			lines = append(lines, historyStatusLine(cmd, cfg.History.Enabled, cfg.History.Path, colorize))

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}
}

// daemonRunning tests the daemon lock without holding it.
func daemonRunning(dir string) (bool, error) {
	lock := flock.New(filepath.Join(dir, daemon.LockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return false, fmt.Errorf("check daemon lock: %w", err)
	}
	if !locked {
		return true, nil
	}
	_ = lock.Unlock()
	return false, nil
}

func historyStatusLine(cmd *cobra.Command, enabled bool, path string, colorize bool) string {
	if !enabled {
		return renderStatusLine("History", statusInfo, "disabled", colorize)
	}
	journal, err := history.Open(path)
	if err != nil {
		return renderStatusLine("History", statusWarn, err.Error(), colorize)
	}
	defer journal.Close()
	counts, err := journal.Counts(cmd.Context())
	if err != nil {
		return renderStatusLine("History", statusWarn, err.Error(), colorize)
	}
	message := fmt.Sprintf("%d posted, %d failed, %d unresolved",
		counts[history.OutcomePosted], counts[history.OutcomeFailed], counts[history.OutcomeUnresolved])
	if n := counts[history.OutcomeUnconfirmed]; n > 0 {
		message += fmt.Sprintf(", %d unconfirmed", n)
	}
	return renderStatusLine("History", statusOK, message, colorize)
}
