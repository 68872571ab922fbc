package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTransient         = errors.New("transient failure")
	ErrRejected          = errors.New("request rejected")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrMalformedResponse = errors.New("malformed response")
	// ErrUnconfirmed marks a request the API accepted but whose result could
	// not be read, so the remote side may have applied it.
	ErrUnconfirmed = errors.New("outcome unconfirmed")
)

// Wrap builds an error message that includes service context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, service, operation, message string, err error) error {
	detail := buildDetail(service, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Hint returns operator guidance for a wrapped service error.
func Hint(err error) string {
	switch {
	case errors.Is(err, ErrUnconfirmed):
		return "the tweet may already be published; check the account, then restart the daemon to retry it"
	case errors.Is(err, ErrUnauthorized):
		return "re-run add-user for this author or check app.toml credentials"
	case errors.Is(err, ErrRejected):
		return "the API refused this tweet; edit or remove it from tweets.toml"
	case errors.Is(err, ErrMalformedResponse):
		return "check twitter.base_url points at the Twitter API"
	default:
		return "check network connectivity; the tweet is retried next cycle"
	}
}

func buildDetail(service, operation, message string) string {
	parts := make([]string, 0, 3)
	if service = strings.TrimSpace(service); service != "" {
		parts = append(parts, service)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
