package twitter

import (
	"context"
	"fmt"
	"strings"

	"github.com/dghubble/oauth1"

	"tweetr/internal/services"
)

const callbackOutOfBand = "oob"

// PendingAuthorization is a request token waiting for the user to approve it
// and enter the PIN shown by Twitter.
type PendingAuthorization struct {
	RequestToken  string
	RequestSecret string
	URL           string
}

// Authorized is the outcome of a completed PIN flow.
type Authorized struct {
	Account Account
	Access  Token
}

func (c *Client) oauthConfig(app Token) *oauth1.Config {
	return &oauth1.Config{
		ConsumerKey:    app.Key,
		ConsumerSecret: app.Secret,
		CallbackURL:    callbackOutOfBand,
		HTTPClient:     c.httpClient,
		Endpoint: oauth1.Endpoint{
			RequestTokenURL: c.baseURL + "/oauth/request_token",
			AuthorizeURL:    c.baseURL + "/oauth/authorize",
			AccessTokenURL:  c.baseURL + "/oauth/access_token",
		},
	}
}

// BeginAuthorization obtains a request token and the URL the user must visit.
func (c *Client) BeginAuthorization(app Token) (PendingAuthorization, error) {
	cfg := c.oauthConfig(app)
	requestToken, requestSecret, err := cfg.RequestToken()
	if err != nil {
		return PendingAuthorization{}, services.Wrap(services.ErrUnauthorized, serviceName, "request token", "", err)
	}
	authURL, err := cfg.AuthorizationURL(requestToken)
	if err != nil {
		return PendingAuthorization{}, fmt.Errorf("build authorization url: %w", err)
	}
	return PendingAuthorization{
		RequestToken:  requestToken,
		RequestSecret: requestSecret,
		URL:           authURL.String(),
	}, nil
}

// CompleteAuthorization exchanges the PIN for an access token and looks up the
// account it belongs to.
func (c *Client) CompleteAuthorization(ctx context.Context, app Token, pending PendingAuthorization, pin string) (Authorized, error) {
	cfg := c.oauthConfig(app)
	accessToken, accessSecret, err := cfg.AccessToken(pending.RequestToken, pending.RequestSecret, strings.TrimSpace(pin))
	if err != nil {
		return Authorized{}, services.Wrap(services.ErrUnauthorized, serviceName, "access token", "", err)
	}
	access := Token{Key: accessToken, Secret: accessSecret}
	account, err := c.VerifyAccount(ctx, access, app)
	if err != nil {
		return Authorized{}, err
	}
	return Authorized{Account: account, Access: access}, nil
}
