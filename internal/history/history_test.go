package history_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"tweetr/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	scheduled := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	posted := scheduled.Add(2 * time.Minute)

	if err := store.Record(ctx, history.Attempt{
		CycleID:     "c1",
		AttemptedAt: posted,
		Author:      "alice",
		ScheduledAt: scheduled,
		Content:     "hello",
		Outcome:     history.OutcomeFailed,
		Error:       "http 503: over capacity",
	}); err != nil {
		t.Fatalf("record failed attempt: %v", err)
	}
	if err := store.Record(ctx, history.Attempt{
		CycleID:     "c2",
		AttemptedAt: posted.Add(time.Minute),
		Author:      "alice",
		ScheduledAt: scheduled,
		Content:     "hello",
		Outcome:     history.OutcomePosted,
		TweetID:     42,
		PostedAt:    posted.Add(time.Minute),
	}); err != nil {
		t.Fatalf("record posted attempt: %v", err)
	}

	attempts, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(attempts))
	}
	latest := attempts[0]
	if latest.Outcome != history.OutcomePosted || latest.TweetID != 42 || latest.CycleID != "c2" {
		t.Fatalf("unexpected latest attempt %+v", latest)
	}
	if !latest.ScheduledAt.Equal(scheduled) {
		t.Fatalf("scheduled = %v, want %v", latest.ScheduledAt, scheduled)
	}
	if latest.Error != "" {
		t.Fatalf("posted attempt should carry no error, got %q", latest.Error)
	}
	failed := attempts[1]
	if failed.Outcome != history.OutcomeFailed || failed.Error != "http 503: over capacity" {
		t.Fatalf("unexpected failed attempt %+v", failed)
	}
	if failed.TweetID != 0 || !failed.PostedAt.IsZero() {
		t.Fatalf("failed attempt should have no posting, got %+v", failed)
	}
}

func TestRecentLimit(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := store.Record(ctx, history.Attempt{CycleID: "c", Author: "a", Outcome: history.OutcomeUnresolved}); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	attempts, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(attempts) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(attempts))
	}
	if attempts[0].ID <= attempts[1].ID {
		t.Fatalf("expected newest first, got ids %d then %d", attempts[0].ID, attempts[1].ID)
	}
	if attempts[0].AttemptedAt.IsZero() {
		t.Fatal("expected zero attempted_at to be stamped")
	}
}

func TestCounts(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	outcomes := []history.Outcome{history.OutcomePosted, history.OutcomeFailed, history.OutcomeFailed}
	for _, outcome := range outcomes {
		if err := store.Record(ctx, history.Attempt{CycleID: "c", Author: "a", Outcome: outcome}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	counts, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts[history.OutcomePosted] != 1 || counts[history.OutcomeFailed] != 2 || counts[history.OutcomeUnresolved] != 0 {
		t.Fatalf("unexpected counts %v", counts)
	}
}

func TestReopenKeepsJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Record(context.Background(), history.Attempt{CycleID: "c", Author: "a", Outcome: history.OutcomePosted, TweetID: 7}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	attempts, err := reopened.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(attempts) != 1 || attempts[0].TweetID != 7 {
		t.Fatalf("unexpected attempts after reopen %+v", attempts)
	}
}

func TestSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.SetSchemaVersionForTest(99); err != nil {
		t.Fatalf("set version: %v", err)
	}
	_ = store.Close()

	if _, err := history.Open(path); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}
