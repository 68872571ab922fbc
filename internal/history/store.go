package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Outcome classifies a post attempt. Unconfirmed marks a request the API
// accepted whose tweet ID could not be read.
type Outcome string

const (
	OutcomePosted      Outcome = "posted"
	OutcomeFailed      Outcome = "failed"
	OutcomeUnresolved  Outcome = "unresolved"
	OutcomeUnconfirmed Outcome = "unconfirmed"
)

// Attempt is one journal row.
type Attempt struct {
	ID          int64
	CycleID     string
	AttemptedAt time.Time
	Author      string
	ScheduledAt time.Time
	Content     string
	Outcome     Outcome
	TweetID     int64
	PostedAt    time.Time
	Error       string
}

// Store manages the journal backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Record appends an attempt. A zero AttemptedAt is stamped with the current time.
func (s *Store) Record(ctx context.Context, attempt Attempt) error {
	if attempt.AttemptedAt.IsZero() {
		attempt.AttemptedAt = time.Now()
	}
	var tweetID, postedAt any
	if attempt.Outcome == OutcomePosted {
		tweetID = attempt.TweetID
		postedAt = formatTime(attempt.PostedAt)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO post_attempts (
            cycle_id, attempted_at, author, scheduled_at, content,
            outcome, tweet_id, posted_at, error_message
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		attempt.CycleID,
		formatTime(attempt.AttemptedAt),
		attempt.Author,
		formatTime(attempt.ScheduledAt),
		attempt.Content,
		string(attempt.Outcome),
		tweetID,
		postedAt,
		nullableString(attempt.Error),
	)
	if err != nil {
		return fmt.Errorf("insert post attempt: %w", err)
	}
	return nil
}

// Recent returns up to limit attempts, newest first. A non-positive limit
// returns every attempt.
func (s *Store) Recent(ctx context.Context, limit int) ([]Attempt, error) {
	query := `SELECT id, cycle_id, attempted_at, author, scheduled_at, content,
        outcome, tweet_id, posted_at, error_message
        FROM post_attempts ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query post attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, attempt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate post attempts: %w", err)
	}
	return attempts, nil
}

// Counts tallies attempts by outcome.
func (s *Store) Counts(ctx context.Context) (map[Outcome]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT outcome, COUNT(1) FROM post_attempts GROUP BY outcome")
	if err != nil {
		return nil, fmt.Errorf("count post attempts: %w", err)
	}
	defer rows.Close()

	counts := make(map[Outcome]int)
	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, fmt.Errorf("scan outcome count: %w", err)
		}
		counts[Outcome(outcome)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcome counts: %w", err)
	}
	return counts, nil
}

func scanAttempt(rows *sql.Rows) (Attempt, error) {
	var (
		attempt     Attempt
		attemptedAt string
		scheduledAt string
		outcome     string
		tweetID     sql.NullInt64
		postedAt    sql.NullString
		errMessage  sql.NullString
	)
	if err := rows.Scan(
		&attempt.ID, &attempt.CycleID, &attemptedAt, &attempt.Author, &scheduledAt, &attempt.Content,
		&outcome, &tweetID, &postedAt, &errMessage,
	); err != nil {
		return Attempt{}, fmt.Errorf("scan post attempt: %w", err)
	}
	attempt.Outcome = Outcome(outcome)
	attempt.AttemptedAt = parseTime(attemptedAt)
	attempt.ScheduledAt = parseTime(scheduledAt)
	if tweetID.Valid {
		attempt.TweetID = tweetID.Int64
	}
	if postedAt.Valid {
		attempt.PostedAt = parseTime(postedAt.String)
	}
	if errMessage.Valid {
		attempt.Error = errMessage.String
	}
	return attempt, nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
