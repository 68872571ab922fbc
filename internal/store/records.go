package store

import (
	"cmp"
	"slices"
	"time"
)

// File names inside the configuration directory.
const (
	CredentialsFile = "app.toml"
	UsersFile       = "users.toml"
	QueueFile       = "tweets.toml"
)

// AppCredentials holds the application's consumer key pair.
type AppCredentials struct {
	Key    string
	Secret string
}

// User is one authorised posting identity. Users are keyed by Name.
type User struct {
	Name         string
	ID           int64
	AccessKey    string
	AccessSecret string
}

// Posting records the outcome of a successful publish.
type Posting struct {
	ID int64
	At time.Time
}

// Tweet is one queued item. Posted is nil while the tweet is pending and set
// exactly once when it is published.
type Tweet struct {
	Author  string
	Time    time.Time
	Content string
	Posted  *Posting
}

// IsPending reports whether the tweet still awaits publication.
func (t Tweet) IsPending() bool {
	return t.Posted == nil
}

// UpsertUser inserts u keeping users sorted by name. A user with the same name
// is replaced. Users read from a hand-edited file are sorted first.
func UpsertUser(users []User, u User) []User {
	out := slices.Clone(users)
	SortUsers(out)
	idx, found := slices.BinarySearchFunc(out, u.Name, func(existing User, name string) int {
		return cmp.Compare(existing.Name, name)
	})
	if found {
		out[idx] = u
		return out
	}
	return slices.Insert(out, idx, u)
}

// SortUsers orders users by name.
func SortUsers(users []User) {
	slices.SortStableFunc(users, func(a, b User) int {
		return cmp.Compare(a.Name, b.Name)
	})
}

// MergeQueue appends add to queue and stable-sorts the result by scheduled time.
// Tweets with equal times keep their relative order.
func MergeQueue(queue []Tweet, add ...Tweet) []Tweet {
	out := make([]Tweet, 0, len(queue)+len(add))
	out = append(out, queue...)
	out = append(out, add...)
	slices.SortStableFunc(out, func(a, b Tweet) int {
		return a.Time.Compare(b.Time)
	})
	return out
}
