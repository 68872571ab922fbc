// Package store persists tweetr's three record kinds: the application
// credentials (app.toml), the authorised users (users.toml) and the tweet queue
// (tweets.toml).
//
// Files are flat TOML documents decoded strictly: unknown keys, type mismatches
// and malformed timestamps fail the whole read with a failure.Error of kind
// Parse carrying positioned diagnostics. Writes go through a temporary file and
// a rename so a crash never leaves a half-written queue behind. Locked
// serialises read-modify-write cycles between the daemon and one-shot commands.
package store
