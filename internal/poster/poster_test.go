package poster_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tweetr/internal/failure"
	"tweetr/internal/logging"
	"tweetr/internal/poster"
	"tweetr/internal/services"
	"tweetr/internal/services/twitter"
	"tweetr/internal/store"
)

type fakeSubmitter struct {
	calls   int
	content []string
	user    twitter.Token
	app     twitter.Token
	result  twitter.Posted
	err     error
}

func (f *fakeSubmitter) Submit(_ context.Context, content string, user, app twitter.Token) (twitter.Posted, error) {
	f.calls++
	f.content = append(f.content, content)
	f.user = user
	f.app = app
	return f.result, f.err
}

var (
	scheduled = time.Date(2016, 9, 9, 0, 33, 30, 0, time.FixedZone("", 2*3600))
	postedAt  = time.Date(2016, 9, 9, 0, 33, 41, 0, time.FixedZone("", 2*3600))
	alice     = store.User{Name: "alice", ID: 1, AccessKey: "uk", AccessSecret: "us"}
	app       = store.AppCredentials{Key: "ak", Secret: "as"}
)

func TestPostSetsPostingOnSuccess(t *testing.T) {
	sub := &fakeSubmitter{result: twitter.Posted{ID: 774050239462969344, At: postedAt}}
	var out bytes.Buffer
	p := poster.New(sub, logging.NewNop(), poster.WithVerboseOutput(&out))

	tweet := store.Tweet{Author: "alice", Time: scheduled, Content: "hello"}
	if err := p.Post(context.Background(), &tweet, alice, app); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if tweet.Posted == nil || tweet.Posted.ID != 774050239462969344 || !tweet.Posted.At.Equal(postedAt) {
		t.Fatalf("unexpected posting %+v", tweet.Posted)
	}
	if sub.user != (twitter.Token{Key: "uk", Secret: "us"}) || sub.app != (twitter.Token{Key: "ak", Secret: "as"}) {
		t.Fatalf("unexpected tokens user=%+v app=%+v", sub.user, sub.app)
	}
	if out.String() != "Posting tweet scheduled for 2016-09-09 00:33:30 +02:00... SUCCESS\n" {
		t.Fatalf("unexpected verbose output %q", out.String())
	}
}

func TestPostFailureLeavesTweetPending(t *testing.T) {
	cause := errors.New("http 503")
	sub := &fakeSubmitter{err: cause}
	var out bytes.Buffer
	p := poster.New(sub, logging.NewNop(), poster.WithVerboseOutput(&out))

	tweet := store.Tweet{Author: "alice", Time: scheduled, Content: "hello"}
	err := p.Post(context.Background(), &tweet, alice, app)
	if !failure.Is(err, failure.KindRemoteAPI) {
		t.Fatalf("expected remote api failure, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be wrapped, got %v", err)
	}
	if tweet.Posted != nil {
		t.Fatalf("failed post must not mutate the tweet: %+v", tweet.Posted)
	}
	if out.String() != "Posting tweet scheduled for 2016-09-09 00:33:30 +02:00... FAILED\n" {
		t.Fatalf("unexpected verbose output %q", out.String())
	}
}

func TestPostRefusesPostedTweet(t *testing.T) {
	sub := &fakeSubmitter{result: twitter.Posted{ID: 2, At: postedAt}}
	p := poster.New(sub, nil)

	original := &store.Posting{ID: 1, At: postedAt}
	tweet := store.Tweet{Author: "alice", Time: scheduled, Content: "hello", Posted: original}
	if err := p.Post(context.Background(), &tweet, alice, app); !errors.Is(err, poster.ErrAlreadyPosted) {
		t.Fatalf("expected ErrAlreadyPosted, got %v", err)
	}
	if sub.calls != 0 {
		t.Fatalf("submitter called %d times for a posted tweet", sub.calls)
	}
	if tweet.Posted != original {
		t.Fatal("posting must be immutable")
	}
}

func TestPostQuietWithoutVerboseWriter(t *testing.T) {
	sub := &fakeSubmitter{result: twitter.Posted{ID: 3, At: postedAt}}
	p := poster.New(sub, logging.NewNop())
	tweet := store.Tweet{Author: "alice", Time: scheduled, Content: "quiet"}
	if err := p.Post(context.Background(), &tweet, alice, app); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if sub.content[0] != "quiet" {
		t.Fatalf("unexpected content %q", sub.content[0])
	}
}

func newJSONLogger(t *testing.T) (*slog.Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "poster.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	return logger, path
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return string(data)
}

func TestPostLogsCarryCycleAndAuthor(t *testing.T) {
	logger, path := newJSONLogger(t)
	sub := &fakeSubmitter{result: twitter.Posted{ID: 9, At: postedAt}}
	p := poster.New(sub, logger)
	tweet := store.Tweet{Author: "alice", Time: scheduled, Content: "traced"}

	ctx := services.WithCycleID(context.Background(), "cycle-42")
	if err := p.Post(ctx, &tweet, alice, app); err != nil {
		t.Fatalf("Post: %v", err)
	}
	out := readLog(t, path)
	for _, want := range []string{`"cycle_id":"cycle-42"`, `"author":"alice"`, `"event_type":"tweet_posted"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log %q missing %s", out, want)
		}
	}
}

func TestPostUnconfirmedWarnsTweetMayBePublished(t *testing.T) {
	logger, path := newJSONLogger(t)
	cause := fmt.Errorf("%w: twitter: post tweet", services.ErrUnconfirmed)
	sub := &fakeSubmitter{err: cause}
	p := poster.New(sub, logger)
	tweet := store.Tweet{Author: "alice", Time: scheduled, Content: "maybe"}

	err := p.Post(context.Background(), &tweet, alice, app)
	if !errors.Is(err, services.ErrUnconfirmed) || !failure.Is(err, failure.KindRemoteAPI) {
		t.Fatalf("expected unconfirmed remote failure, got %v", err)
	}
	if tweet.Posted != nil {
		t.Fatal("unconfirmed tweet must stay pending")
	}
	if out := readLog(t, path); !strings.Contains(out, "tweet_post_unconfirmed") {
		t.Fatalf("expected unconfirmed warning, got %q", out)
	}
}
