// Package preflight decides whether a tweetr subsystem may run.
//
// Every subsystem reads or writes files in the configuration directory that
// another subsystem produces: init writes app.toml, add-user writes users.toml
// and queue-tweet writes tweets.toml. Verify turns one of those file roles into
// a path or a typed failure naming the subsystem to run first (or the --force
// flag to pass). The For* plans list the checks each subsystem needs and are
// re-evaluated on every invocation.
//
// The package also carries readiness checks for the CLI "tweetr status"
// command and daemon startup logging (CheckDirectoryAccess, RunAll).
package preflight
