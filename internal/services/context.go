package services

import "context"

type contextKey string

const (
	cycleIDKey contextKey = "cycle_id"
	authorKey  contextKey = "author"
)

// WithCycleID annotates context with the daemon cycle identifier.
func WithCycleID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, cycleIDKey, id)
}

// CycleIDFromContext extracts the daemon cycle identifier if present.
func CycleIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(cycleIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithAuthor annotates context with the user a tweet is posted as.
func WithAuthor(ctx context.Context, author string) context.Context {
	if author == "" {
		return ctx
	}
	return context.WithValue(ctx, authorKey, author)
}

// AuthorFromContext returns the author if present.
func AuthorFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(authorKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
