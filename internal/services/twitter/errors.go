package twitter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"tweetr/internal/services"
)

type httpStatusError struct {
	StatusCode int
	Message    string
}

func (e *httpStatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d", e.StatusCode)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

type transportError struct {
	err error
}

func (e *transportError) Error() string { return e.err.Error() }

func (e *transportError) Unwrap() error { return e.err }

type decodeError struct {
	err error
}

func (e *decodeError) Error() string { return "decode response: " + e.err.Error() }

func (e *decodeError) Unwrap() error { return e.err }

// StatusCode reports the HTTP status carried by err, if any.
func StatusCode(err error) (int, bool) {
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode, true
	}
	return 0, false
}

func (c *Client) wrap(operation string, err error) error {
	var statusErr *httpStatusError
	var decodeErr *decodeError
	switch {
	case errors.As(err, &statusErr):
		return services.Wrap(classifyStatus(statusErr.StatusCode), serviceName, operation, "", err)
	case errors.As(err, &decodeErr):
		return services.Wrap(services.ErrMalformedResponse, serviceName, operation, "", err)
	default:
		return services.Wrap(services.ErrTransient, serviceName, operation, "", err)
	}
}

func classifyStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return services.ErrUnauthorized
	case status == http.StatusTooManyRequests, status >= http.StatusInternalServerError:
		return services.ErrTransient
	default:
		return services.ErrRejected
	}
}

type apiErrorBody struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// apiErrorMessage extracts the most specific message from an API error body.
// v2 responses carry detail/title, v1.1 responses an errors array.
func apiErrorMessage(body []byte) string {
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if msg := strings.TrimSpace(parsed.Detail); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(parsed.Title); msg != "" {
			return msg
		}
		if len(parsed.Errors) > 0 {
			if msg := strings.TrimSpace(parsed.Errors[0].Message); msg != "" {
				return msg
			}
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody] + "..."
	}
	return text
}
