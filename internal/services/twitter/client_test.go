package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tweetr/internal/services"
)

var (
	appToken  = Token{Key: "app-key", Secret: "app-secret"}
	userToken = Token{Key: "user-key", Secret: "user-secret"}
)

func requireSigned(t *testing.T, r *http.Request, userKey string) {
	t.Helper()
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "OAuth ") {
		t.Fatalf("expected OAuth authorization header, got %q", auth)
	}
	for _, want := range []string{`oauth_consumer_key="app-key"`, `oauth_token="` + userKey + `"`, `oauth_signature=`} {
		if !strings.Contains(auth, want) {
			t.Fatalf("authorization header %q missing %s", auth, want)
		}
	}
}

func TestSubmitPostsTweet(t *testing.T) {
	date := time.Date(2016, 9, 8, 22, 33, 41, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/2/tweets" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		requireSigned(t, r, "user-key")
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["text"] != "hello world" {
			t.Fatalf("unexpected text %q", body["text"])
		}
		w.Header().Set("Date", date.Format(http.TimeFormat))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"774050239462969344","text":"hello world"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	posted, err := client.Submit(context.Background(), "hello world", userToken, appToken)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if posted.ID != 774050239462969344 {
		t.Fatalf("unexpected id %d", posted.ID)
	}
	if !posted.At.Equal(date) {
		t.Fatalf("posted at %s, want %s", posted.At, date)
	}
}

func TestSubmitFallsBackToClock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header()["Date"] = nil
		_, _ = w.Write([]byte(`{"data":{"id":"5"}}`))
	}))
	defer server.Close()

	fixed := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	client := NewClient(Config{BaseURL: server.URL}, WithClock(func() time.Time { return fixed }))
	posted, err := client.Submit(context.Background(), "x", userToken, appToken)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if !posted.At.Equal(fixed) {
		t.Fatalf("posted at %s, want %s", posted.At, fixed)
	}
}

func TestSubmitClassifiesFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		marker error
		want   string
	}{
		{"duplicate", http.StatusForbidden, `{"title":"Forbidden","detail":"You are not allowed to create a Tweet with duplicate content."}`, services.ErrRejected, "duplicate content"},
		{"unauthorized", http.StatusUnauthorized, `{"title":"Unauthorized"}`, services.ErrUnauthorized, "Unauthorized"},
		{"rate limited", http.StatusTooManyRequests, `{"errors":[{"message":"Rate limit exceeded"}]}`, services.ErrTransient, "Rate limit exceeded"},
		{"server error", http.StatusServiceUnavailable, "upstream down", services.ErrTransient, "upstream down"},
	}
	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(tc.body))
		}))
		client := NewClient(Config{BaseURL: server.URL})
		_, err := client.Submit(context.Background(), "x", userToken, appToken)
		server.Close()

		if !errors.Is(err, tc.marker) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.marker, err)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: error %q missing %q", tc.name, err, tc.want)
		}
		if status, ok := StatusCode(err); !ok || status != tc.status {
			t.Fatalf("%s: StatusCode = %d, %v", tc.name, status, ok)
		}
	}
}

func TestSubmitUnreadableSuccessIsUnconfirmed(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"non-numeric id", `{"data":{"id":"not-a-number"}}`},
		{"missing id", `{"data":{}}`},
		{"not json", `<html>ok</html>`},
	}
	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(tc.body))
		}))
		_, err := NewClient(Config{BaseURL: server.URL}).Submit(context.Background(), "x", userToken, appToken)
		server.Close()
		if !errors.Is(err, services.ErrUnconfirmed) {
			t.Fatalf("%s: expected unconfirmed outcome, got %v", tc.name, err)
		}
	}
}

func TestVerifyAccountRejectsMalformedID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"id":"x","username":"alice"}}`))
	}))
	defer server.Close()

	_, err := NewClient(Config{BaseURL: server.URL}).VerifyAccount(context.Background(), userToken, appToken)
	if !errors.Is(err, services.ErrMalformedResponse) {
		t.Fatalf("expected malformed response, got %v", err)
	}
}

func TestSubmitUsesConfiguredHTTPClient(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requireSigned(t, r, "user-key")
		_, _ = w.Write([]byte(`{"data":{"id":"7"}}`))
	}))
	defer server.Close()

	if _, err := NewClient(Config{BaseURL: server.URL}).Submit(context.Background(), "x", userToken, appToken); err == nil {
		t.Fatal("default client should not trust the test certificate")
	}
	client := NewClient(Config{BaseURL: server.URL}, WithHTTPClient(server.Client()))
	posted, err := client.Submit(context.Background(), "x", userToken, appToken)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if posted.ID != 7 {
		t.Fatalf("unexpected id %d", posted.ID)
	}
}

func TestSubmitTransportFailureIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(Config{BaseURL: url}).Submit(context.Background(), "x", userToken, appToken)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
}

func TestPINAuthorizationFlow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/request_token", func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Authorization"), `oauth_callback="oob"`) {
			t.Fatalf("expected oob callback, got %q", r.Header.Get("Authorization"))
		}
		_, _ = w.Write([]byte("oauth_token=req-token&oauth_token_secret=req-secret&oauth_callback_confirmed=true"))
	})
	mux.HandleFunc("/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.Contains(auth, `oauth_verifier="1234567"`) || !strings.Contains(auth, `oauth_token="req-token"`) {
			t.Fatalf("unexpected access token authorization %q", auth)
		}
		_, _ = w.Write([]byte("oauth_token=acc-token&oauth_token_secret=acc-secret&user_id=481&screen_name=alice"))
	})
	mux.HandleFunc("/2/users/me", func(w http.ResponseWriter, r *http.Request) {
		requireSigned(t, r, "acc-token")
		_, _ = w.Write([]byte(`{"data":{"id":"481","name":"Alice","username":"alice"}}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	pending, err := client.BeginAuthorization(appToken)
	if err != nil {
		t.Fatalf("BeginAuthorization: %v", err)
	}
	if pending.URL != server.URL+"/oauth/authorize?oauth_token=req-token" {
		t.Fatalf("unexpected authorization url %q", pending.URL)
	}

	authorized, err := client.CompleteAuthorization(context.Background(), appToken, pending, " 1234567 ")
	if err != nil {
		t.Fatalf("CompleteAuthorization: %v", err)
	}
	if authorized.Account.ID != 481 || authorized.Account.Username != "alice" {
		t.Fatalf("unexpected account %+v", authorized.Account)
	}
	if authorized.Access != (Token{Key: "acc-token", Secret: "acc-secret"}) {
		t.Fatalf("unexpected access token %+v", authorized.Access)
	}
}

func TestBeginAuthorizationRejectedCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := NewClient(Config{BaseURL: server.URL}).BeginAuthorization(appToken)
	if !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("expected unauthorized marker, got %v", err)
	}
}
