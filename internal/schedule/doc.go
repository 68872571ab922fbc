// Package schedule selects queued tweets that are due and resolves the user
// each one is posted as. Both operations are pure: they never touch disk or
// mutate their inputs.
package schedule
