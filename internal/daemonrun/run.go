package daemonrun

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"tweetr/internal/config"
	"tweetr/internal/daemon"
	"tweetr/internal/history"
	"tweetr/internal/logging"
	"tweetr/internal/preflight"
	"tweetr/internal/services/twitter"
)

// Options configures daemon process runtime behavior.
type Options struct {
	// Delay overrides daemon.delay_seconds when positive.
	Delay   time.Duration
	Verbose bool
	// LogLevel overrides logging.level when non-empty.
	LogLevel string
	// Out receives verbose posting progress. Defaults to stdout.
	Out io.Writer
	// Submitter replaces the Twitter API client.
	Submitter twitter.Submitter
}

// Run starts the tweetr daemon runtime loop and blocks until SIGINT or SIGTERM.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	runID := time.Now().UTC().Format("20060102T150405.000Z")
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("tweetr-%s.log", runID))

	logCfg := *cfg
	if opts.LogLevel != "" {
		logCfg.Logging.Level = opts.LogLevel
	}
	logger, err := logging.NewFromConfig(&logCfg, logPath)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	if err := ensureCurrentLogPointer(cfg.Paths.LogDir, logPath); err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to update tweetr.log link: %v\n", err)
	}
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays,
		logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: "tweetr-*.log", Exclude: []string{logPath}},
	)
	logReadinessSnapshot(logger, cfg)

	var recorder daemon.Recorder
	if cfg.History.Enabled {
		journal, err := history.Open(cfg.History.Path)
		if err != nil {
			logging.WarnWithContext(logger, "history journal unavailable", "history_open_failed",
				logging.Error(err),
				logging.String("path", cfg.History.Path),
				logging.String(logging.FieldErrorHint, "fix or remove the history database"),
				logging.String(logging.FieldImpact, "post attempts are not journaled"),
			)
		} else {
			defer journal.Close()
			recorder = journal
		}
	}

	submitter := opts.Submitter
	if submitter == nil {
		submitter = twitter.NewClient(twitter.Config{
			BaseURL:        cfg.Twitter.BaseURL,
			TimeoutSeconds: cfg.Twitter.TimeoutSeconds,
		})
	}

	delay := cfg.DaemonDelay()
	if opts.Delay > 0 {
		delay = opts.Delay
	}
	daemonOpts := daemon.Options{
		Dir:       cfg.Paths.ConfigDir,
		Delay:     delay,
		Submitter: submitter,
		Logger:    logger,
		History:   recorder,
	}
	if opts.Verbose || cfg.Daemon.Verbose {
		out := opts.Out
		if out == nil {
			out = os.Stdout
		}
		daemonOpts.Verbose = out
	}

	d, err := daemon.New(daemonOpts)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}

	if err := d.Run(signalCtx); err != nil {
		logging.ErrorWithContext(logger, "daemon stopped", "daemon_start_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run the named subsystem or stop the other daemon"),
		)
		return err
	}
	return nil
}

func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := filepath.Join(logDir, "tweetr.log")
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing log pointer: %w", err)
	}
	if err := os.Symlink(target, current); err == nil {
		return nil
	}
	if err := os.Link(target, current); err != nil {
		return fmt.Errorf("link log pointer: %w", err)
	}
	return nil
}

func logReadinessSnapshot(logger *slog.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		return
	}
	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "readiness_snapshot"),
		logging.String("config_dir", cfg.Paths.ConfigDir),
		logging.String("api_base_url", cfg.Twitter.BaseURL),
		logging.Bool("history_enabled", cfg.History.Enabled),
	}
	for _, result := range preflight.RunAll(cfg.Paths.ConfigDir) {
		key := strings.ReplaceAll(strings.ToLower(result.Name), " ", "_")
		attrs = append(attrs, logging.String(key, result.Detail))
	}
	logger.Info("readiness snapshot", logging.Args(attrs...)...)
}
