package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"

	"tweetr/internal/store"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCredentials reports whether app.toml exists and decodes.
func CheckCredentials(dir string) Result {
	path := RoleCredentials.Path(dir)
	if _, err := store.ReadCredentials(path); err != nil {
		return missingOrBroken(RoleCredentials, path, err)
	}
	return Result{Name: "App credentials", Passed: true, Detail: path}
}

// CheckUsers reports whether users.toml exists and decodes, with its user count.
func CheckUsers(dir string) Result {
	path := RoleUsers.Path(dir)
	users, err := store.ReadUsers(path)
	if err != nil {
		return missingOrBroken(RoleUsers, path, err)
	}
	if len(users) == 0 {
		return Result{Name: "Users", Detail: fmt.Sprintf("%s (no users; run add-user)", path)}
	}
	return Result{Name: "Users", Passed: true, Detail: fmt.Sprintf("%s (%d authorised)", path, len(users))}
}

// CheckQueue reports whether tweets.toml exists and decodes, with pending and
// posted counts.
func CheckQueue(dir string) Result {
	path := RoleQueue.Path(dir)
	queue, err := store.ReadQueue(path)
	if err != nil {
		return missingOrBroken(RoleQueue, path, err)
	}
	pending := 0
	for _, tweet := range queue {
		if tweet.IsPending() {
			pending++
		}
	}
	return Result{Name: "Queue", Passed: true, Detail: fmt.Sprintf("%s (%d pending, %d posted)", path, pending, len(queue)-pending)}
}

func missingOrBroken(role Role, path string, err error) Result {
	name := displayName(role)
	if errors.Is(err, fs.ErrNotExist) {
		return Result{Name: name, Detail: fmt.Sprintf("%s (missing; run %s)", path, role.Producer)}
	}
	return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
}

func displayName(role Role) string {
	switch role {
	case RoleCredentials:
		return "App credentials"
	case RoleUsers:
		return "Users"
	default:
		return "Queue"
	}
}
