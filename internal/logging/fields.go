package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType classifies a log line for filtering (tweet_posted, cycle_complete, ...).
	FieldEventType = "event_type"
	// FieldErrorHint carries the operator's next step for a warning or error.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldCycleID identifies one daemon polling cycle.
	FieldCycleID = "cycle_id"
	// FieldAuthor is the configured user name a tweet is posted as.
	FieldAuthor = "author"
	// FieldScheduledAt is the scheduled time of a queued tweet.
	FieldScheduledAt = "scheduled_at"
	// FieldTweetID is the remote identifier of a posted tweet.
	FieldTweetID = "tweet_id"
)
