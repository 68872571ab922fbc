// Package failure defines the typed outcomes tweetr operations return.
//
// Every operator-visible failure is a *Error with a Kind. The CLI maps the kind to
// an exit code and prints a remediation hint naming the command to run or the flag
// to pass. The daemon inspects kinds to decide whether a failure is per-item
// (logged, cycle continues) or fatal at startup.
package failure
