// Package poster performs the single state transition of a queued tweet:
// pending to posted.
package poster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"tweetr/internal/failure"
	"tweetr/internal/logging"
	"tweetr/internal/services"
	"tweetr/internal/services/twitter"
	"tweetr/internal/store"
)

// ErrAlreadyPosted is returned when asked to post a tweet that carries a posting.
var ErrAlreadyPosted = errors.New("tweet already posted")

// Poster publishes queued tweets through a Submitter.
type Poster struct {
	submitter twitter.Submitter
	logger    *slog.Logger
	verbose   io.Writer
}

// Option customizes the poster.
type Option func(*Poster)

// WithVerboseOutput writes "Posting tweet scheduled for ..." progress lines to w.
func WithVerboseOutput(w io.Writer) Option {
	return func(p *Poster) {
		p.verbose = w
	}
}

// New constructs a Poster.
func New(submitter twitter.Submitter, logger *slog.Logger, opts ...Option) *Poster {
	p := &Poster{
		submitter: submitter,
		logger:    logging.NewComponentLogger(logger, "poster"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Post publishes tweet as user. On success tweet.Posted is set in one
// assignment; on failure the tweet is left untouched and a RemoteAPI failure
// is returned.
func (p *Poster) Post(ctx context.Context, tweet *store.Tweet, user store.User, app store.AppCredentials) error {
	if tweet == nil {
		return errors.New("post: nil tweet")
	}
	if !tweet.IsPending() {
		return ErrAlreadyPosted
	}

	logger := logging.WithContext(services.WithAuthor(ctx, tweet.Author), p.logger)
	if p.verbose != nil {
		fmt.Fprintf(p.verbose, "Posting tweet scheduled for %s... ", store.DisplayTime(tweet.Time))
	}

	posted, err := p.submitter.Submit(ctx, tweet.Content,
		twitter.Token{Key: user.AccessKey, Secret: user.AccessSecret},
		twitter.Token{Key: app.Key, Secret: app.Secret},
	)
	if err != nil {
		if p.verbose != nil {
			fmt.Fprintln(p.verbose, "FAILED")
		}
		if errors.Is(err, services.ErrUnconfirmed) {
			logging.WarnWithContext(logger, "tweet may have been published; response was unreadable", "tweet_post_unconfirmed",
				logging.Time(logging.FieldScheduledAt, tweet.Time),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, services.Hint(err)),
				logging.String(logging.FieldImpact, "tweet is not retried until the daemon restarts"),
			)
			return failure.RemoteAPI(err)
		}
		logging.WarnWithContext(logger, "tweet post failed; tweet stays queued", "tweet_post_failed",
			logging.Time(logging.FieldScheduledAt, tweet.Time),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, services.Hint(err)),
			logging.String(logging.FieldImpact, "tweet will be retried next cycle"),
		)
		return failure.RemoteAPI(err)
	}

	tweet.Posted = &store.Posting{ID: posted.ID, At: posted.At}

	if p.verbose != nil {
		fmt.Fprintln(p.verbose, "SUCCESS")
	}
	logger.Info(fmt.Sprintf("Posted tweet %q scheduled for %s by %s at %s with ID %d",
		tweet.Content, store.DisplayTime(tweet.Time), tweet.Author, store.DisplayTime(posted.At), posted.ID),
		logging.String(logging.FieldEventType, "tweet_posted"),
		logging.Int64(logging.FieldTweetID, posted.ID),
	)
	return nil
}
