// Command tweetr queues tweets and posts them on schedule.
//
// The one-shot subsystems (init, add-user, queue-tweet) prompt on the
// terminal and write the TOML files in the configuration directory;
// start-daemon polls that directory and posts tweets as they fall due.
// The exit status reports the failure class: 1 overwrite denied, 2 a
// prerequisite subsystem has not run, 3 Twitter API error, 4 parse failure,
// 5 anything else.
package main
