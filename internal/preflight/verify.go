package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"tweetr/internal/failure"
	"tweetr/internal/store"
)

// Role identifies one of the persisted files and the subsystem producing it.
type Role struct {
	Name     string
	File     string
	Producer string
}

var (
	RoleCredentials = Role{Name: "app credentials", File: store.CredentialsFile, Producer: "init"}
	RoleUsers       = Role{Name: "users", File: store.UsersFile, Producer: "add-user"}
	RoleQueue       = Role{Name: "queued tweets", File: store.QueueFile, Producer: "queue-tweet"}
)

// Path returns the role's file inside dir.
func (r Role) Path(dir string) string {
	return filepath.Join(dir, r.File)
}

// Verify checks the role's file in dir against the caller's expectation.
//
//   - force: the path is returned without looking at the file.
//   - the file's existence matches mustExist: the path is returned.
//   - mustExist and the file is missing: UpstreamFileMissing naming the producer.
//   - the file exists and must not: OverwriteDenied.
func Verify(dir string, role Role, mustExist, force bool) (string, error) {
	path := role.Path(dir)
	if force {
		return path, nil
	}
	exists, err := fileExists(path)
	if err != nil {
		return "", err
	}
	switch {
	case exists == mustExist:
		return path, nil
	case mustExist:
		return "", failure.UpstreamFileMissing(role.Producer, path)
	default:
		return "", failure.OverwriteDenied(path)
	}
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", path, err)
}

// InitPaths are the files the init subsystem touches.
type InitPaths struct {
	Credentials string
}

// ForInit requires app.toml to be absent unless force is set.
func ForInit(dir string, force bool) (InitPaths, error) {
	creds, err := Verify(dir, RoleCredentials, false, force)
	if err != nil {
		return InitPaths{}, err
	}
	return InitPaths{Credentials: creds}, nil
}

// AddUserPaths are the files the add-user subsystem touches.
type AddUserPaths struct {
	Credentials string
	Users       string
}

// ForAddUser requires app.toml. users.toml is created when missing and
// updated otherwise.
func ForAddUser(dir string) (AddUserPaths, error) {
	creds, err := Verify(dir, RoleCredentials, true, false)
	if err != nil {
		return AddUserPaths{}, err
	}
	users, err := Verify(dir, RoleUsers, false, true)
	if err != nil {
		return AddUserPaths{}, err
	}
	return AddUserPaths{Credentials: creds, Users: users}, nil
}

// QueueTweetPaths are the files the queue-tweet subsystem touches.
type QueueTweetPaths struct {
	Queue string
}

// ForQueueTweet has no upstream requirement; tweets.toml is created when
// missing and merged into otherwise. Authors are checked by the daemon when
// their tweets fall due.
func ForQueueTweet(dir string) (QueueTweetPaths, error) {
	queue, err := Verify(dir, RoleQueue, false, true)
	if err != nil {
		return QueueTweetPaths{}, err
	}
	return QueueTweetPaths{Queue: queue}, nil
}

// DaemonPaths are the files the daemon reads and writes.
type DaemonPaths struct {
	Credentials string
	Users       string
	Queue       string
}

// ForDaemon requires all three files, checked in producer order so the first
// missing one names the earliest subsystem to run.
func ForDaemon(dir string) (DaemonPaths, error) {
	var paths DaemonPaths
	var err error
	if paths.Credentials, err = Verify(dir, RoleCredentials, true, false); err != nil {
		return DaemonPaths{}, err
	}
	if paths.Users, err = Verify(dir, RoleUsers, true, false); err != nil {
		return DaemonPaths{}, err
	}
	if paths.Queue, err = Verify(dir, RoleQueue, true, false); err != nil {
		return DaemonPaths{}, err
	}
	return paths, nil
}
