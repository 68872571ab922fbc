package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dghubble/oauth1"

	"tweetr/internal/services"
)

const (
	serviceName        = "twitter"
	defaultBaseURL     = "https://api.twitter.com"
	defaultHTTPTimeout = 30 * time.Second
	userAgent          = "tweetr"
	maxErrorBody       = 512
)

// Config captures the runtime settings required to talk to the API.
type Config struct {
	BaseURL        string
	TimeoutSeconds int
}

// Token is an OAuth 1.0a key pair, either the application's consumer pair or a
// user's access pair.
type Token struct {
	Key    string
	Secret string
}

// Posted is the result of a successful publish.
type Posted struct {
	ID int64
	At time.Time
}

// Submitter publishes tweets. The poster depends on this interface so tests can
// substitute a fake.
type Submitter interface {
	Submit(ctx context.Context, content string, user, app Token) (Posted, error)
}

// Client wraps the Twitter API.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	now        func() time.Time
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client. Its transport carries the
// OAuth-signed requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithClock overrides the clock used when the API omits a Date header.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient constructs a client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}
	return client
}

type createTweetRequest struct {
	Text string `json:"text"`
}

type createTweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// Submit publishes content as the user. The returned time comes from the
// response Date header, in the local fixed offset.
func (c *Client) Submit(ctx context.Context, content string, user, app Token) (Posted, error) {
	payload, err := json.Marshal(createTweetRequest{Text: content})
	if err != nil {
		return Posted{}, fmt.Errorf("encode tweet: %w", err)
	}

	var decoded createTweetResponse
	header, err := c.doSigned(ctx, http.MethodPost, "/2/tweets", payload, user, app, &decoded)
	if err != nil {
		var decodeErr *decodeError
		if errors.As(err, &decodeErr) {
			return Posted{}, services.Wrap(services.ErrUnconfirmed, serviceName, "post tweet", "accepted but unreadable response", err)
		}
		return Posted{}, c.wrap("post tweet", err)
	}

	id, err := strconv.ParseInt(strings.TrimSpace(decoded.Data.ID), 10, 64)
	if err != nil || id <= 0 {
		if err == nil {
			err = fmt.Errorf("non-positive id %d", id)
		}
		return Posted{}, services.Wrap(services.ErrUnconfirmed, serviceName, "post tweet", fmt.Sprintf("accepted but tweet id %q", decoded.Data.ID), err)
	}
	return Posted{ID: id, At: c.responseTime(header)}, nil
}

// Account identifies the user an access token belongs to.
type Account struct {
	ID       int64
	Username string
}

type meResponse struct {
	Data struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"data"`
}

// VerifyAccount looks up the user owning the access token.
func (c *Client) VerifyAccount(ctx context.Context, user, app Token) (Account, error) {
	var decoded meResponse
	if _, err := c.doSigned(ctx, http.MethodGet, "/2/users/me", nil, user, app, &decoded); err != nil {
		return Account{}, c.wrap("verify account", err)
	}
	id, err := strconv.ParseInt(strings.TrimSpace(decoded.Data.ID), 10, 64)
	if err != nil {
		return Account{}, services.Wrap(services.ErrMalformedResponse, serviceName, "verify account", fmt.Sprintf("user id %q", decoded.Data.ID), err)
	}
	if strings.TrimSpace(decoded.Data.Username) == "" {
		return Account{}, services.Wrap(services.ErrMalformedResponse, serviceName, "verify account", "empty username", nil)
	}
	return Account{ID: id, Username: decoded.Data.Username}, nil
}

func (c *Client) doSigned(ctx context.Context, method, path string, body []byte, user, app Token, out any) (http.Header, error) {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("build url: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(reqCtx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.signedClient(reqCtx, user, app).Do(req)
	if err != nil {
		return nil, &transportError{err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &transportError{err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &httpStatusError{StatusCode: resp.StatusCode, Message: apiErrorMessage(data)}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return nil, &decodeError{err: err}
	}
	return resp.Header, nil
}

func (c *Client) signedClient(ctx context.Context, user, app Token) *http.Client {
	cfg := oauth1.NewConfig(app.Key, app.Secret)
	token := oauth1.NewToken(user.Key, user.Secret)
	return cfg.Client(context.WithValue(ctx, oauth1.HTTPClient, c.httpClient), token)
}

func (c *Client) responseTime(header http.Header) time.Time {
	at := c.now()
	if header != nil {
		if parsed, err := http.ParseTime(header.Get("Date")); err == nil {
			at = parsed
		}
	}
	return inLocalOffset(at)
}

func inLocalOffset(t time.Time) time.Time {
	_, offset := t.In(time.Local).Zone()
	return t.In(time.FixedZone("", offset))
}
