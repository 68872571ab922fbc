package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"tweetr/internal/failure"
	"tweetr/internal/history"
	"tweetr/internal/logging"
	"tweetr/internal/schedule"
	"tweetr/internal/services"
	"tweetr/internal/store"
)

// CycleReport summarizes one polling cycle.
type CycleReport struct {
	CycleID    string
	Due        int
	Posted     int
	Failed     int
	Unresolved int
	// Held counts due tweets skipped because an earlier attempt may have
	// published them.
	Held int
	// Restored counts postings reapplied after an earlier persist failure.
	Restored int
	// LoadErr is set when users or tweets could not be read; nothing was
	// posted or persisted.
	LoadErr error
	// PersistErr is set when the updated queue could not be written.
	PersistErr error
}

// Summary renders the report as a single status line.
func (r CycleReport) Summary() string {
	if r.LoadErr != nil {
		return fmt.Sprintf("cycle %s: load failed: %v", r.CycleID, r.LoadErr)
	}
	line := fmt.Sprintf("cycle %s: %d due, %d posted, %d failed, %d unresolved",
		r.CycleID, r.Due, r.Posted, r.Failed, r.Unresolved)
	if r.Held > 0 {
		line += fmt.Sprintf(", %d held", r.Held)
	}
	return line
}

type tweetKey struct {
	author  string
	at      int64
	content string
}

func keyOf(t store.Tweet) tweetKey {
	return tweetKey{author: t.Author, at: t.Time.UnixNano(), content: t.Content}
}

// RunCycle performs one load, post, persist pass. The queue file lock is held
// for the whole pass so queue-tweet cannot interleave a write.
func (d *Daemon) RunCycle(ctx context.Context) CycleReport {
	d.cycleMu.Lock()
	defer d.cycleMu.Unlock()

	report := CycleReport{CycleID: uuid.NewString()}
	ctx = services.WithCycleID(ctx, report.CycleID)
	logger := logging.WithContext(ctx, d.logger)

	if !d.prepared {
		if err := d.Prepare(); err != nil {
			report.LoadErr = err
			logLoadFailure(logger, err)
			return report
		}
	}

	err := store.Locked(ctx, d.paths.Queue, func() error {
		users, queue, err := d.load()
		if err != nil {
			return err
		}

		report.Restored = d.restoreUnsaved(logger, queue)

		due := schedule.DueIndices(queue, d.clock())
		report.Due = len(due)
		for _, idx := range due {
			if _, held := d.unconfirmed[keyOf(queue[idx])]; held {
				report.Held++
				continue
			}
			d.process(ctx, logger, report.CycleID, &queue[idx], users, &report)
		}

		if err := d.persist(d.paths.Queue, queue); err != nil {
			report.PersistErr = err
			logging.ErrorWithContext(logger, "failed to persist queued tweets", "queue_persist_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check permissions on "+d.paths.Queue),
				logging.String(logging.FieldImpact, "postings are kept in memory until a write succeeds; a restart before then may repost them"),
			)
			return nil
		}
		clear(d.unsaved)
		return nil
	})
	if err != nil {
		report.LoadErr = err
		logLoadFailure(logger, err)
		return report
	}

	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "cycle_complete"),
		logging.Int("due", report.Due),
		logging.Int("posted", report.Posted),
		logging.Int("failed", report.Failed),
		logging.Int("unresolved", report.Unresolved),
		logging.Int("held", report.Held),
	}
	if report.Due > 0 {
		logger.Info("cycle complete", logging.Args(attrs...)...)
	} else {
		logger.Debug("cycle complete", logging.Args(attrs...)...)
	}
	return report
}

// restoreUnsaved reattaches postings this daemon made but could not persist,
// returning how many tweets it updated.
func (d *Daemon) restoreUnsaved(logger *slog.Logger, queue []store.Tweet) int {
	if len(d.unsaved) == 0 {
		return 0
	}
	restored := 0
	for i := range queue {
		if !queue[i].IsPending() {
			continue
		}
		posting, ok := d.unsaved[keyOf(queue[i])]
		if !ok {
			continue
		}
		queue[i].Posted = &posting
		restored++
	}
	if restored > 0 {
		logger.Info("reapplied postings from an earlier failed write",
			logging.String(logging.FieldEventType, "postings_restored"),
			logging.Int("count", restored),
		)
	}
	return restored
}

func (d *Daemon) load() ([]store.User, []store.Tweet, error) {
	users, err := store.ReadUsers(d.paths.Users)
	if err != nil {
		return nil, nil, err
	}
	queue, err := store.ReadQueue(d.paths.Queue)
	if err != nil {
		return nil, nil, err
	}
	return users, queue, nil
}

func (d *Daemon) process(ctx context.Context, logger *slog.Logger, cycleID string, tweet *store.Tweet, users []store.User, report *CycleReport) {
	attempt := history.Attempt{
		CycleID:     cycleID,
		AttemptedAt: d.clock(),
		Author:      tweet.Author,
		ScheduledAt: tweet.Time,
		Content:     tweet.Content,
	}

	user, err := schedule.ResolveAuthor(*tweet, users)
	if err != nil {
		report.Unresolved++
		logging.WarnWithContext(logging.WithContext(services.WithAuthor(ctx, tweet.Author), d.logger),
			"tweet author is not authorised", "author_unresolved",
			logging.Time(logging.FieldScheduledAt, tweet.Time),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, hintFor(err)),
			logging.String(logging.FieldImpact, "tweet stays queued until the user is added"),
		)
		attempt.Outcome = history.OutcomeUnresolved
		attempt.Error = err.Error()
		d.record(ctx, logger, attempt)
		return
	}

	if err := d.poster.Post(ctx, tweet, user, d.app); err != nil {
		report.Failed++
		attempt.Outcome = history.OutcomeFailed
		if errors.Is(err, services.ErrUnconfirmed) {
			d.unconfirmed[keyOf(*tweet)] = struct{}{}
			attempt.Outcome = history.OutcomeUnconfirmed
		}
		attempt.Error = err.Error()
		d.record(ctx, logger, attempt)
		return
	}

	d.unsaved[keyOf(*tweet)] = *tweet.Posted
	report.Posted++
	attempt.Outcome = history.OutcomePosted
	attempt.TweetID = tweet.Posted.ID
	attempt.PostedAt = tweet.Posted.At
	d.record(ctx, logger, attempt)
}

func (d *Daemon) record(ctx context.Context, logger *slog.Logger, attempt history.Attempt) {
	if d.history == nil {
		return
	}
	if err := d.history.Record(ctx, attempt); err != nil {
		logging.WarnWithContext(logger, "failed to record post attempt", "history_record_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the history database path and permissions"),
			logging.String(logging.FieldImpact, "attempt missing from tweetr history"),
		)
	}
}

func logLoadFailure(logger *slog.Logger, err error) {
	logging.ErrorWithContext(logger, "failed to load users or queued tweets", "cycle_load_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, hintFor(err)),
		logging.String(logging.FieldImpact, "no tweets posted this cycle"),
	)
}

func hintFor(err error) string {
	var fe *failure.Error
	if !errors.As(err, &fe) {
		return "check the configuration directory is readable"
	}
	var b strings.Builder
	failure.PrintHint(&b, err)
	return strings.Join(strings.Fields(b.String()), " ")
}
