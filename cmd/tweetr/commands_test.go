package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"tweetr/internal/history"
	"tweetr/internal/store"
	"tweetr/internal/testsupport"
)

const (
	testKey    = "GeVFiYk7q8DhUmgMXE0iODrFa"
	testSecret = "bH3VIvYEwwVmMXkTnXB8N3HEQf4ShOf2Z4e1dkaqSJNGorK2pe"
)

func TestInitWritesCredentials(t *testing.T) {
	env := setupCLITestEnv(t)
	stdin := "too-short\n" + testKey + "\n" + testSecret + "\n"

	stdout, stderr, code := runCLI(t, env, stdin, "init")
	requireCode(t, code, 0, stderr)
	requireContains(t, stdout, "App key: App key: App secret: ")

	creds, err := store.ReadCredentials(env.path(store.CredentialsFile))
	if err != nil {
		t.Fatalf("read credentials: %v", err)
	}
	if creds.Key != testKey || creds.Secret != testSecret {
		t.Fatalf("unexpected credentials %+v", creds)
	}
	info, err := os.Stat(env.path(store.CredentialsFile))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("app.toml mode = %o, want 600", info.Mode().Perm())
	}
}

func TestInitRefusesOverwrite(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteCredentials(t, env.configDir, store.AppCredentials{Key: "old", Secret: "old"})

	_, stderr, code := runCLI(t, env, testKey+"\n"+testSecret+"\n", "init")
	requireCode(t, code, 1, stderr)
	requireContains(t, stderr, "was not overwritten to prevent data loss.")
	requireContains(t, stderr, "Pass --force to overwrite it.")

	creds, err := store.ReadCredentials(env.path(store.CredentialsFile))
	if err != nil {
		t.Fatalf("read credentials: %v", err)
	}
	if creds.Key != "old" {
		t.Fatalf("credentials were overwritten: %+v", creds)
	}

	_, stderr, code = runCLI(t, env, testKey+"\n"+testSecret+"\n", "init", "--force")
	requireCode(t, code, 0, stderr)
	creds, err = store.ReadCredentials(env.path(store.CredentialsFile))
	if err != nil {
		t.Fatalf("read credentials: %v", err)
	}
	if creds.Key != testKey {
		t.Fatalf("expected forced overwrite, got %+v", creds)
	}
}

func TestInitEndOfInputFails(t *testing.T) {
	env := setupCLITestEnv(t)
	_, stderr, code := runCLI(t, env, testKey+"\n", "init")
	requireCode(t, code, 5, stderr)
	if _, err := os.Stat(env.path(store.CredentialsFile)); !os.IsNotExist(err) {
		t.Fatalf("app.toml should not exist, stat err %v", err)
	}
}

func TestAddUserRequiresInit(t *testing.T) {
	env := setupCLITestEnv(t)
	_, stderr, code := runCLI(t, env, "", "add-user")
	requireCode(t, code, 2, stderr)
	requireContains(t, stderr, "Run the init subsystem first to produce")
}

func newOAuthServer(t *testing.T, requestStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/request_token", func(w http.ResponseWriter, r *http.Request) {
		if requestStatus != http.StatusOK {
			http.Error(w, "Could not authenticate you.", requestStatus)
			return
		}
		_, _ = w.Write([]byte("oauth_token=req-token&oauth_token_secret=req-secret&oauth_callback_confirmed=true"))
	})
	mux.HandleFunc("/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Authorization"), `oauth_verifier="1234567"`) {
			http.Error(w, "bad verifier", http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte("oauth_token=acc-token&oauth_token_secret=acc-secret"))
	})
	mux.HandleFunc("/2/users/me", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":"481","name":"Alice","username":"alice"}}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestAddUserAuthorisesAndUpserts(t *testing.T) {
	env := setupCLITestEnv(t)
	server := newOAuthServer(t, http.StatusOK)
	t.Setenv("TWEETR_API_BASE_URL", server.URL)
	testsupport.WriteCredentials(t, env.configDir, store.AppCredentials{Key: testKey, Secret: testSecret})
	testsupport.WriteUsers(t, env.configDir,
		store.User{Name: "alice", ID: 1, AccessKey: "stale", AccessSecret: "stale"},
		testsupport.Bob,
	)

	stdout, stderr, code := runCLI(t, env, "12345\n1234567\n", "add-user", "--verbose")
	requireCode(t, code, 0, stderr)
	requireContains(t, stdout, "Getting request token... DONE\n")
	requireContains(t, stdout, "Visit this URL: "+server.URL+"/oauth/authorize?oauth_token=req-token\n")
	requireContains(t, stdout, "\nGetting access token... DONE\n")
	requireContains(t, stdout, "Successfully authenticated user alice#481\n")
	requireContains(t, stdout, "  Key   : acc-token\n")

	users, err := store.ReadUsers(env.path(store.UsersFile))
	if err != nil {
		t.Fatalf("read users: %v", err)
	}
	if len(users) != 2 || users[0].Name != "alice" || users[1].Name != "bob" {
		t.Fatalf("unexpected users %+v", users)
	}
	if users[0].ID != 481 || users[0].AccessKey != "acc-token" || users[0].AccessSecret != "acc-secret" {
		t.Fatalf("alice was not replaced: %+v", users[0])
	}
}

func TestAddUserRemoteFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	server := newOAuthServer(t, http.StatusUnauthorized)
	t.Setenv("TWEETR_API_BASE_URL", server.URL)
	testsupport.WriteCredentials(t, env.configDir, store.AppCredentials{Key: testKey, Secret: testSecret})

	_, stderr, code := runCLI(t, env, "", "add-user")
	requireCode(t, code, 3, stderr)
	requireContains(t, stderr, "Twitter API error: ")
	if _, err := os.Stat(env.path(store.UsersFile)); !os.IsNotExist(err) {
		t.Fatalf("users.toml should not exist, stat err %v", err)
	}
}

func TestQueueTweetMergesInTimeOrder(t *testing.T) {
	env := setupCLITestEnv(t)
	existing := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	testsupport.WriteQueue(t, env.configDir, testsupport.Pending("bob", existing, "already queued"))

	stdin := strings.Join([]string{
		"alice",
		`first line\`,
		"second line",
		"not a time",
		"Mon, 1 Jun 2026 13:00:00 +0200",
		"carol",
		strings.Repeat("x", 281),
		"short",
		"2026-06-01T12:00:00Z",
		"",
	}, "\n") + "\n"

	stdout, stderr, code := runCLI(t, env, stdin, "queue-tweet")
	requireCode(t, code, 0, stderr)
	requireContains(t, stdout, "tweet content is 281 characters, limit is 280")
	requireContains(t, stdout, "Queued 2 tweet(s)")

	queue := testsupport.ReadQueue(t, env.configDir)
	if len(queue) != 3 {
		t.Fatalf("expected 3 tweets, got %d", len(queue))
	}
	if queue[0].Author != "alice" || queue[0].Content != "first line\nsecond line" {
		t.Fatalf("unexpected first tweet %+v", queue[0])
	}
	_, offset := queue[0].Time.Zone()
	if offset != 2*3600 {
		t.Fatalf("expected +02:00 offset preserved, got %d", offset)
	}
	if queue[1].Content != "already queued" || queue[2].Author != "carol" {
		t.Fatalf("equal times should keep existing tweet first: %+v", queue)
	}
	for _, tweet := range queue {
		if !tweet.IsPending() {
			t.Fatalf("new tweets must be pending: %+v", tweet)
		}
	}
}

func TestQueueTweetCreatesEmptyQueue(t *testing.T) {
	env := setupCLITestEnv(t)
	_, stderr, code := runCLI(t, env, "\n", "queue-tweet")
	requireCode(t, code, 0, stderr)
	if queue := testsupport.ReadQueue(t, env.configDir); len(queue) != 0 {
		t.Fatalf("expected empty queue, got %+v", queue)
	}
}

func TestQueueTweetRepromptsInvalidUTF8(t *testing.T) {
	env := setupCLITestEnv(t)
	stdin := strings.Join([]string{
		"al\xffice",
		"alice",
		"hello \xff world",
		"hello world",
		"2026-06-01T12:00:00Z",
		"",
	}, "\n") + "\n"

	stdout, stderr, code := runCLI(t, env, stdin, "queue-tweet")
	requireCode(t, code, 0, stderr)
	requireContains(t, stdout, "author is not valid UTF-8")
	requireContains(t, stdout, "tweet content is not valid UTF-8")

	queue := testsupport.ReadQueue(t, env.configDir)
	if len(queue) != 1 || queue[0].Author != "alice" || queue[0].Content != "hello world" {
		t.Fatalf("unexpected queue %+v", queue)
	}
}

func TestQueueTweetKeepsCompletedTweetsWhenInputEnds(t *testing.T) {
	env := setupCLITestEnv(t)
	stdin := "alice\nfirst\n2026-06-01T12:00:00Z\nbob\nunfinished\n"

	stdout, stderr, code := runCLI(t, env, stdin, "queue-tweet")
	requireCode(t, code, 5, stderr)
	requireContains(t, stdout, "Queued 1 tweet(s)")

	queue := testsupport.ReadQueue(t, env.configDir)
	if len(queue) != 1 || queue[0].Author != "alice" || queue[0].Content != "first" {
		t.Fatalf("unexpected queue %+v", queue)
	}
}

func TestQueueListAndParseFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	posted := testsupport.Pending("alice", at, "posted one")
	posted.Posted = &store.Posting{ID: 774050239462969344, At: at.Add(time.Minute)}
	testsupport.WriteQueue(t, env.configDir, posted, testsupport.Pending("bob", at.Add(time.Hour), "waiting"))

	stdout, stderr, code := runCLI(t, env, "", "queue", "list")
	requireCode(t, code, 0, stderr)
	requireContains(t, stdout, "774050239462969344")
	requireContains(t, stdout, "waiting")

	stdout, _, _ = runCLI(t, env, "", "queue", "list", "--pending")
	if strings.Contains(stdout, "posted one") {
		t.Fatalf("--pending should hide posted tweets: %s", stdout)
	}

	testsupport.WriteRaw(t, env.configDir, store.QueueFile, "[[tweet]]\nauthor = \"a\"\ntime = \"soon\"\ncontent = \"c\"\n")
	_, stderr, code = runCLI(t, env, "", "queue", "list")
	requireCode(t, code, 4, stderr)
	requireContains(t, stderr, "Failed to parse queued tweets in ")
	requireContains(t, stderr, "  3:8: ")
}

func TestUsersList(t *testing.T) {
	env := setupCLITestEnv(t)
	stdout, _, code := runCLI(t, env, "", "users", "list")
	requireCode(t, code, 0, "")
	requireContains(t, stdout, "No users authorised")

	testsupport.WriteUsers(t, env.configDir, testsupport.Alice, testsupport.Bob)
	stdout, _, _ = runCLI(t, env, "", "users", "list")
	requireContains(t, stdout, "alice")
	requireContains(t, stdout, "202")
	if strings.Contains(stdout, testsupport.Alice.AccessSecret) {
		t.Fatal("users list must not print access secrets")
	}
}

func TestHistoryListsAttempts(t *testing.T) {
	env := setupCLITestEnv(t)
	stdout, stderr, code := runCLI(t, env, "", "history")
	requireCode(t, code, 0, stderr)
	requireContains(t, stdout, "No posting attempts recorded")

	journal, err := history.Open(env.path("history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := journal.Record(context.Background(), history.Attempt{
		CycleID: "0123456789abcdef", Author: "alice", ScheduledAt: at, Content: "hello",
		Outcome: history.OutcomePosted, TweetID: 99, PostedAt: at,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}
	_ = journal.Close()

	stdout, stderr, code = runCLI(t, env, "", "history", "--limit", "5")
	requireCode(t, code, 0, stderr)
	requireContains(t, stdout, "01234567")
	requireContains(t, stdout, "posted")
	requireContains(t, stdout, "99")
}

func TestStatusReportsMissingFiles(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteCredentials(t, env.configDir, testsupport.App)

	stdout, stderr, code := runCLI(t, env, "", "status")
	requireCode(t, code, 0, stderr)
	requireContains(t, stdout, "== Files ==")
	requireContains(t, stdout, "[OK] "+env.path(store.CredentialsFile))
	requireContains(t, stdout, "(missing; run add-user)")
	requireContains(t, stdout, "(missing; run queue-tweet)")
	requireContains(t, stdout, "not running")
}

func TestUnknownFlagExitsOther(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, code := runCLI(t, env, "", "init", "--bogus")
	requireCode(t, code, 5, "")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)
	target := env.homeDir + "/custom.toml"

	stdout, stderr, code := runCLI(t, env, "", "config", "init", "--path", target)
	requireCode(t, code, 0, stderr)
	requireContains(t, stdout, "Wrote sample configuration to "+target)

	_, stderr, code = runCLI(t, env, "", "config", "init", "--path", target)
	requireCode(t, code, 5, stderr)
	requireContains(t, stderr, "already exists")

	stdout, stderr, code = runCLI(t, env, "", "--config", target, "config", "validate")
	requireCode(t, code, 0, stderr)
	requireContains(t, stdout, "Config directory: "+env.configDir)
	requireContains(t, stdout, "Configuration valid")
}
