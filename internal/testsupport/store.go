package testsupport

import (
	"testing"

	"tweetr/internal/config"
	"tweetr/internal/history"
)

// MustOpenHistory opens the config's history journal and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	journal, err := history.Open(cfg.History.Path)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		journal.Close()
	})
	return journal
}
