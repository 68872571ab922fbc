package daemon

import "tweetr/internal/store"

// SetPersistForTest replaces the queue writer.
func SetPersistForTest(d *Daemon, fn func(path string, queue []store.Tweet) error) {
	d.persist = fn
}
