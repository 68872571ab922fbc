// Package daemonrun wires the tweetr daemon into a process: signal handling,
// per-run log files with a tweetr.log pointer, log retention, the history
// journal and the Twitter client.
package daemonrun
