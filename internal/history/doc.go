// Package history keeps a SQLite journal of every post attempt the daemon
// makes. The queue file only records successful postings; the journal adds
// failed and unresolved attempts so operators can see why a tweet is late.
//
// The journal is append-only and never consulted when selecting due tweets.
package history
