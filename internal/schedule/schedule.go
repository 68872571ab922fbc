package schedule

import (
	"fmt"
	"time"

	"tweetr/internal/failure"
	"tweetr/internal/store"
)

// DueIndices returns, in queue order, the index of every pending tweet whose
// scheduled time is at or before now. Times compare as instants, so differing
// UTC offsets never shift the selection.
func DueIndices(queue []store.Tweet, now time.Time) []int {
	var due []int
	for i, tweet := range queue {
		if tweet.IsPending() && !tweet.Time.After(now) {
			due = append(due, i)
		}
	}
	return due
}

// Now returns the current instant in the local zone's fixed offset.
func Now() time.Time {
	now := time.Now()
	_, offset := now.Zone()
	return now.In(time.FixedZone("", offset))
}

// ResolveAuthor finds the user whose name exactly matches the tweet's author.
// Names are case-sensitive. A miss is an UpstreamDataMissing failure pointing
// at add-user.
func ResolveAuthor(tweet store.Tweet, users []store.User) (store.User, error) {
	for _, user := range users {
		if user.Name == tweet.Author {
			return user, nil
		}
	}
	return store.User{}, failure.UpstreamDataMissing("add-user", fmt.Sprintf(
		"add and authorise user with name %q (required for tweet %q scheduled for %s)",
		tweet.Author, tweet.Content, store.DisplayTime(tweet.Time),
	))
}
