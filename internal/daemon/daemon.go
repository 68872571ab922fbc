package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	sddaemon "github.com/coreos/go-systemd/v22/daemon"
	"github.com/gofrs/flock"

	"tweetr/internal/history"
	"tweetr/internal/logging"
	"tweetr/internal/poster"
	"tweetr/internal/preflight"
	"tweetr/internal/schedule"
	"tweetr/internal/services/twitter"
	"tweetr/internal/store"
)

// LockFile is the single-instance lock inside the configuration directory.
const LockFile = "daemon.lock"

// Recorder receives one entry per post attempt.
type Recorder interface {
	Record(ctx context.Context, attempt history.Attempt) error
}

// Options configures a Daemon.
type Options struct {
	Dir       string
	Delay     time.Duration
	Submitter twitter.Submitter
	Logger    *slog.Logger
	// Verbose receives "Posting tweet scheduled for ..." progress lines.
	Verbose io.Writer
	History Recorder
	Clock   func() time.Time
	// Notify sends a systemd notification state. Defaults to sd_notify.
	Notify func(state string) error
}

// Daemon coordinates polling cycles and enforces single-instance execution.
type Daemon struct {
	dir     string
	delay   time.Duration
	poster  *poster.Poster
	logger  *slog.Logger
	history Recorder
	clock   func() time.Time
	notify  func(state string) error

	lockPath string
	lock     *flock.Flock

	paths    preflight.DaemonPaths
	app      store.AppCredentials
	prepared bool

	cycleMu sync.Mutex
	persist func(path string, queue []store.Tweet) error

	// unsaved holds postings made since the last successful persist. They are
	// reapplied to the reloaded queue so a failed write cannot cause a repost.
	unsaved map[tweetKey]store.Posting

	// unconfirmed holds tweets the API accepted without a readable ID. They are
	// not retried for the lifetime of this daemon.
	unconfirmed map[tweetKey]struct{}

	running atomic.Bool
}

// New constructs a daemon. Preconditions are checked by Prepare or Run.
func New(opts Options) (*Daemon, error) {
	if strings.TrimSpace(opts.Dir) == "" {
		return nil, errors.New("daemon requires a configuration directory")
	}
	if opts.Submitter == nil {
		return nil, errors.New("daemon requires a submitter")
	}
	if opts.Delay <= 0 {
		return nil, fmt.Errorf("daemon delay must be positive, got %s", opts.Delay)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "daemon")

	var posterOpts []poster.Option
	if opts.Verbose != nil {
		posterOpts = append(posterOpts, poster.WithVerboseOutput(opts.Verbose))
	}
	clock := opts.Clock
	if clock == nil {
		clock = schedule.Now
	}
	notify := opts.Notify
	if notify == nil {
		notify = sdNotify
	}

	lockPath := filepath.Join(opts.Dir, LockFile)
	return &Daemon{
		dir:      opts.Dir,
		delay:    opts.Delay,
		poster:   poster.New(opts.Submitter, logger, posterOpts...),
		logger:   logger,
		history:  opts.History,
		clock:    clock,
		notify:   notify,
		lockPath: lockPath,
		lock:     flock.New(lockPath),

		persist:     store.WriteQueue,
		unsaved:     make(map[tweetKey]store.Posting),
		unconfirmed: make(map[tweetKey]struct{}),
	}, nil
}

// Prepare verifies that app.toml, users.toml and tweets.toml exist and loads
// the app credentials. The first missing file names the subsystem to run.
func (d *Daemon) Prepare() error {
	paths, err := preflight.ForDaemon(d.dir)
	if err != nil {
		return err
	}
	app, err := store.ReadCredentials(paths.Credentials)
	if err != nil {
		return err
	}
	d.paths = paths
	d.app = app
	d.prepared = true
	return nil
}

// Run acquires the daemon lock, checks preconditions, and polls until ctx is
// done. Cycle failures never stop the loop.
func (d *Daemon) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return errors.New("daemon already running")
	}
	defer d.running.Store(false)

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another tweetr daemon is already running against %s", d.dir)
	}
	defer func() {
		if err := d.lock.Unlock(); err != nil {
			d.logger.Warn("failed to release daemon lock", logging.Error(err))
		}
	}()

	if err := d.Prepare(); err != nil {
		return err
	}

	d.logger.Info("tweetr daemon started",
		logging.String(logging.FieldEventType, "daemon_started"),
		logging.String("config_dir", d.dir),
		logging.String("lock", d.lockPath),
		logging.Duration("delay", d.delay),
	)

	ready := false
	for {
		report := d.RunCycle(ctx)
		state := "STATUS=" + report.Summary()
		if !ready {
			state = sddaemon.SdNotifyReady + "\n" + state
			ready = true
		}
		d.sendNotify(state)

		if !d.sleep(ctx) {
			d.sendNotify(sddaemon.SdNotifyStopping)
			d.logger.Info("tweetr daemon shutting down",
				logging.String(logging.FieldEventType, "daemon_stopped"))
			return nil
		}
	}
}

// sleep waits the full delay. It returns false only when ctx is done.
func (d *Daemon) sleep(ctx context.Context) bool {
	timer := time.NewTimer(d.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (d *Daemon) sendNotify(state string) {
	if err := d.notify(state); err != nil {
		d.logger.Debug("sd_notify failed", logging.Error(err))
	}
}

func sdNotify(state string) error {
	_, err := sddaemon.SdNotify(false, state)
	return err
}
