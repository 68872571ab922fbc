// Package services defines shared utilities consumed by the Twitter client and
// the daemon.
//
// Key responsibilities:
//   - Context helpers that stamp daemon cycle IDs and tweet authors for logging.
//   - Structured error markers plus the Wrap helper that classify remote
//     failures (transient, rejected, unauthorized) and map them to operator hints.
package services
