// Package daemon runs the tweetr polling loop.
//
// Each cycle reloads users and the queue under the queue file lock, posts
// every due tweet through the poster, and writes the queue back before the
// daemon sleeps. Per-item failures are logged and retried on a later cycle;
// only startup precondition failures stop the daemon. A flock on
// daemon.lock keeps a second daemon away from the same directory.
package daemon
