package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"tweetr/internal/failure"
)

const (
	privateFileMode = 0o600
	queueFileMode   = 0o644
)

// ReadCredentials loads app.toml from path.
func ReadCredentials(path string) (AppCredentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AppCredentials{}, fmt.Errorf("read app credentials: %w", err)
	}
	creds, err := DecodeCredentials(data)
	if err != nil {
		return AppCredentials{}, withPath(err, path)
	}
	return creds, nil
}

// WriteCredentials atomically replaces app.toml at path.
func WriteCredentials(path string, creds AppCredentials) error {
	data, err := EncodeCredentials(creds)
	if err != nil {
		return fmt.Errorf("encode app credentials: %w", err)
	}
	return writeAtomic(path, data, privateFileMode)
}

// ReadUsers loads users.toml from path. A missing file surfaces as an error
// wrapping fs.ErrNotExist.
func ReadUsers(path string) ([]User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	users, err := DecodeUsers(data)
	if err != nil {
		return nil, withPath(err, path)
	}
	return users, nil
}

// WriteUsers atomically replaces users.toml at path.
func WriteUsers(path string, users []User) error {
	data, err := EncodeUsers(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	return writeAtomic(path, data, privateFileMode)
}

// ReadQueue loads tweets.toml from path. A missing file surfaces as an error
// wrapping fs.ErrNotExist.
func ReadQueue(path string) ([]Tweet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read queued tweets: %w", err)
	}
	queue, err := DecodeQueue(data)
	if err != nil {
		return nil, withPath(err, path)
	}
	return queue, nil
}

// WriteQueue atomically replaces tweets.toml at path.
func WriteQueue(path string, queue []Tweet) error {
	data, err := EncodeQueue(queue)
	if err != nil {
		return fmt.Errorf("encode queued tweets: %w", err)
	}
	return writeAtomic(path, data, queueFileMode)
}

func withPath(err error, path string) error {
	var fe *failure.Error
	if errors.As(err, &fe) {
		fe.Path = path
		fe.Description = fmt.Sprintf("%s in %s", fe.Description, path)
	}
	return err
}

func writeAtomic(path string, data []byte, perm os.FileMode) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, perm); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath) // cleanup on failure
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
