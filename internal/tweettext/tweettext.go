// Package tweettext applies the content rules a tweet must satisfy before it
// is queued.
package tweettext

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxLength is the number of code points Twitter accepts after NFC normalisation.
const MaxLength = 280

var (
	ErrEmpty       = errors.New("tweet content is empty")
	ErrInvalidUTF8 = errors.New("tweet content is not valid UTF-8")
)

// Normalize returns content in NFC with surrounding blank space removed.
func Normalize(content string) string {
	return strings.TrimSpace(norm.NFC.String(content))
}

// Length counts code points of the normalised content.
func Length(content string) int {
	return utf8.RuneCountInString(Normalize(content))
}

// Validate reports whether content may be queued.
func Validate(content string) error {
	if !utf8.ValidString(content) {
		return ErrInvalidUTF8
	}
	normalized := Normalize(content)
	if normalized == "" {
		return ErrEmpty
	}
	if n := utf8.RuneCountInString(normalized); n > MaxLength {
		return fmt.Errorf("tweet content is %d characters, limit is %d", n, MaxLength)
	}
	return nil
}
