package testsupport

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"tweetr/internal/store"
)

// Fixture credentials and users shared by package tests.
var (
	App   = store.AppCredentials{Key: "aaaaaaaaaaaaaaaaaaaaaaaaa", Secret: "ssssssssssssssssssssssssssssssssssssssssssssssssss"}
	Alice = store.User{Name: "alice", ID: 101, AccessKey: "alice-key", AccessSecret: "alice-secret"}
	Bob   = store.User{Name: "bob", ID: 202, AccessKey: "bob-key", AccessSecret: "bob-secret"}
)

// WriteCredentials stores app credentials under dir.
func WriteCredentials(t testing.TB, dir string, creds store.AppCredentials) string {
	t.Helper()
	path := filepath.Join(dir, store.CredentialsFile)
	if err := store.WriteCredentials(path, creds); err != nil {
		t.Fatalf("write credentials: %v", err)
	}
	return path
}

// WriteUsers stores users under dir.
func WriteUsers(t testing.TB, dir string, users ...store.User) string {
	t.Helper()
	path := filepath.Join(dir, store.UsersFile)
	if err := store.WriteUsers(path, users); err != nil {
		t.Fatalf("write users: %v", err)
	}
	return path
}

// WriteQueue stores tweets under dir.
func WriteQueue(t testing.TB, dir string, tweets ...store.Tweet) string {
	t.Helper()
	path := filepath.Join(dir, store.QueueFile)
	if err := store.WriteQueue(path, tweets); err != nil {
		t.Fatalf("write queue: %v", err)
	}
	return path
}

// WriteRaw writes literal content to name under dir.
func WriteRaw(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ReadQueue loads tweets.toml from dir.
func ReadQueue(t testing.TB, dir string) []store.Tweet {
	t.Helper()
	queue, err := store.ReadQueue(filepath.Join(dir, store.QueueFile))
	if err != nil {
		t.Fatalf("read queue: %v", err)
	}
	return queue
}

// Pending builds an unposted tweet.
func Pending(author string, at time.Time, content string) store.Tweet {
	return store.Tweet{Author: author, Time: at, Content: content}
}
