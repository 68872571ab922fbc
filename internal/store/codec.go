package store

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"

	"tweetr/internal/failure"
)

type credentialsDocument struct {
	Key    string `toml:"key"`
	Secret string `toml:"secret"`
}

type userRecord struct {
	Name              string `toml:"name"`
	ID                int64  `toml:"id"`
	AccessTokenKey    string `toml:"access_token_key"`
	AccessTokenSecret string `toml:"access_token_secret"`
}

type usersDocument struct {
	User []userRecord `toml:"user,omitempty"`
}

type tweetRecord struct {
	Author     string  `toml:"author"`
	Time       string  `toml:"time"`
	Content    string  `toml:"content"`
	TimePosted *string `toml:"time_posted,omitempty"`
	ID         *int64  `toml:"id,omitempty"`
}

type queueDocument struct {
	Tweet []tweetRecord `toml:"tweet,omitempty"`
}

// EncodeCredentials renders creds as app.toml content.
func EncodeCredentials(creds AppCredentials) ([]byte, error) {
	if err := requireUTF8("app credentials", 0, creds.Key, creds.Secret); err != nil {
		return nil, err
	}
	return toml.Marshal(credentialsDocument{Key: creds.Key, Secret: creds.Secret})
}

// DecodeCredentials parses app.toml content.
func DecodeCredentials(data []byte) (AppCredentials, error) {
	var doc credentialsDocument
	if err := decodeStrict(data, &doc); err != nil {
		return AppCredentials{}, parseFailure("app credentials", err)
	}
	return AppCredentials{Key: doc.Key, Secret: doc.Secret}, nil
}

// EncodeUsers renders users as users.toml content in the order given.
func EncodeUsers(users []User) ([]byte, error) {
	doc := usersDocument{User: make([]userRecord, 0, len(users))}
	for i, u := range users {
		if err := requireUTF8("user", i+1, u.Name, u.AccessKey, u.AccessSecret); err != nil {
			return nil, err
		}
		doc.User = append(doc.User, userRecord{
			Name:              u.Name,
			ID:                u.ID,
			AccessTokenKey:    u.AccessKey,
			AccessTokenSecret: u.AccessSecret,
		})
	}
	return toml.Marshal(doc)
}

// DecodeUsers parses users.toml content.
func DecodeUsers(data []byte) ([]User, error) {
	var doc usersDocument
	if err := decodeStrict(data, &doc); err != nil {
		return nil, parseFailure("users", err)
	}
	users := make([]User, 0, len(doc.User))
	for _, rec := range doc.User {
		users = append(users, User{
			Name:         rec.Name,
			ID:           rec.ID,
			AccessKey:    rec.AccessTokenKey,
			AccessSecret: rec.AccessTokenSecret,
		})
	}
	return users, nil
}

// EncodeQueue renders queue as tweets.toml content in the order given.
func EncodeQueue(queue []Tweet) ([]byte, error) {
	doc := queueDocument{Tweet: make([]tweetRecord, 0, len(queue))}
	for i, t := range queue {
		if err := requireUTF8("tweet", i+1, t.Author, t.Content); err != nil {
			return nil, err
		}
		rec := tweetRecord{
			Author:  t.Author,
			Time:    FormatTimestamp(t.Time),
			Content: t.Content,
		}
		if t.Posted != nil {
			at := FormatTimestamp(t.Posted.At)
			id := t.Posted.ID
			rec.TimePosted = &at
			rec.ID = &id
		}
		doc.Tweet = append(doc.Tweet, rec)
	}
	return toml.Marshal(doc)
}

// requireUTF8 refuses values go-toml would write but could not read back.
func requireUTF8(entity string, index int, values ...string) error {
	for _, value := range values {
		if utf8.ValidString(value) {
			continue
		}
		if index > 0 {
			return fmt.Errorf("encode %s %d: %q is not valid UTF-8", entity, index, value)
		}
		return fmt.Errorf("encode %s: value is not valid UTF-8", entity)
	}
	return nil
}

// DecodeQueue parses tweets.toml content. Every timestamp must be RFC 3339 and
// time_posted and id must appear together.
func DecodeQueue(data []byte) ([]Tweet, error) {
	var doc queueDocument
	if err := decodeStrict(data, &doc); err != nil {
		return nil, parseFailure("queued tweets", err)
	}

	queue := make([]Tweet, 0, len(doc.Tweet))
	var diags []failure.Diagnostic
	for i, rec := range doc.Tweet {
		tweet, recDiags := decodeTweet(data, i, rec)
		if len(recDiags) > 0 {
			diags = append(diags, recDiags...)
			continue
		}
		queue = append(queue, tweet)
	}
	if len(diags) > 0 {
		return nil, failure.Parse("queued tweets", diags...)
	}
	return queue, nil
}

func decodeTweet(data []byte, index int, rec tweetRecord) (Tweet, []failure.Diagnostic) {
	var diags []failure.Diagnostic
	tweet := Tweet{Author: rec.Author, Content: rec.Content}

	scheduled, err := parseStoredTime(rec.Time)
	if err != nil {
		line, col := locateKey(data, "tweet", index, "time")
		diags = append(diags, failure.Diagnostic{Line: line, Column: col, Message: fmt.Sprintf("tweet %d: time: %v", index+1, err)})
	}
	tweet.Time = scheduled

	switch {
	case rec.TimePosted != nil && rec.ID != nil:
		at, err := parseStoredTime(*rec.TimePosted)
		if err != nil {
			line, col := locateKey(data, "tweet", index, "time_posted")
			diags = append(diags, failure.Diagnostic{Line: line, Column: col, Message: fmt.Sprintf("tweet %d: time_posted: %v", index+1, err)})
			break
		}
		tweet.Posted = &Posting{ID: *rec.ID, At: at}
	case rec.TimePosted != nil:
		line, col := locateKey(data, "tweet", index, "time_posted")
		diags = append(diags, failure.Diagnostic{Line: line, Column: col, Message: fmt.Sprintf("tweet %d: time_posted is set but id is missing", index+1)})
	case rec.ID != nil:
		line, col := locateKey(data, "tweet", index, "id")
		diags = append(diags, failure.Diagnostic{Line: line, Column: col, Message: fmt.Sprintf("tweet %d: id is set but time_posted is missing", index+1)})
	}
	return tweet, diags
}

func parseStoredTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not an RFC 3339 timestamp", value)
	}
	return t, nil
}

func decodeStrict(data []byte, v any) error {
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// parseFailure converts a go-toml error into a Parse failure with one
// diagnostic per reported problem.
func parseFailure(description string, err error) error {
	var strict *toml.StrictMissingError
	if errors.As(err, &strict) {
		diags := make([]failure.Diagnostic, 0, len(strict.Errors))
		for i := range strict.Errors {
			diags = append(diags, decodeDiagnostic(&strict.Errors[i]))
		}
		return failure.Parse(description, diags...)
	}
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		return failure.Parse(description, decodeDiagnostic(decodeErr))
	}
	return failure.Parse(description, failure.Diagnostic{Message: trimTOMLPrefix(err.Error())})
}

func decodeDiagnostic(err *toml.DecodeError) failure.Diagnostic {
	row, col := err.Position()
	msg := trimTOMLPrefix(err.Error())
	if key := err.Key(); len(key) > 0 {
		msg = fmt.Sprintf("%s (key %s)", msg, strings.Join(key, "."))
	}
	return failure.Diagnostic{Line: row, Column: col, Message: msg}
}

func trimTOMLPrefix(msg string) string {
	return strings.TrimPrefix(msg, "toml: ")
}

// locateKey finds the 1-based line and column of key's value inside the
// index-th [[table]] entry. It returns zeros when the key cannot be found.
func locateKey(data []byte, table string, index int, key string) (int, int) {
	header := "[[" + table + "]]"
	lines := strings.Split(string(data), "\n")
	seen := -1
	inside := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") {
			if inside {
				return 0, 0
			}
			if strings.ReplaceAll(trimmed, " ", "") == header {
				seen++
				inside = seen == index
			}
			continue
		}
		if !inside {
			continue
		}
		name, _, ok := strings.Cut(trimmed, "=")
		if !ok || strings.Trim(strings.TrimSpace(name), `"'`) != key {
			continue
		}
		eq := strings.Index(line, "=")
		col := eq + 1
		for col < len(line) && (line[col] == ' ' || line[col] == '\t') {
			col++
		}
		return i + 1, col + 1
	}
	return 0, 0
}
