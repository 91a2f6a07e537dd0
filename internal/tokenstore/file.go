// Package tokenstore persists session artifacts as atomic single-key
// operations. Two interchangeable backends exist: a durable file-backed
// store and a process-scoped in-memory fallback. The Store wrapper probes
// durable storage on every operation and degrades to the fallback when
// the host environment has made durable storage unavailable (read-only
// home, quota, sandboxing), so the application runs with per-process
// credentials rather than crashing.
package tokenstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// probeKey is written and immediately deleted to test durable storage.
const probeKey = "__probe__"

// FileStore keeps one file per key under dir, guarded by a file lock so
// concurrent CLI invocations do not interleave partial writes.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir. The directory
// is created lazily on first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (f *FileStore) keyPath(key string) string {
	return filepath.Join(f.dir, key)
}

func (f *FileStore) withLock(key string, fn func(path string) error) error {
	path := f.keyPath(key)

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquiring lock for %q: %w", key, err)
	}
	if !locked {
		return errors.New("could not acquire file lock, another instance may be running")
	}
	defer lock.Unlock()

	return fn(path)
}

// Get reads the value for key. A missing key reads as empty without
// error.
func (f *FileStore) Get(key string) (string, error) {
	var value string
	err := f.withLock(key, func(path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return fmt.Errorf("reading %q: %w", key, err)
		}
		value = string(data)
		return nil
	})
	return value, err
}

// Set writes the value for key with user-only permissions.
func (f *FileStore) Set(key, value string) error {
	if err := os.MkdirAll(f.dir, 0700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}
	return f.withLock(key, func(path string) error {
		return os.WriteFile(path, []byte(value), 0600)
	})
}

// Remove deletes the key. Removing an absent key is not an error.
func (f *FileStore) Remove(key string) error {
	return f.withLock(key, func(path string) error {
		err := os.Remove(path)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %q: %w", key, err)
		}
		return nil
	})
}

// IsAvailable probes durable storage by writing and immediately deleting
// a probe key. Any failure means the backend is unusable for this
// operation.
func (f *FileStore) IsAvailable() bool {
	if err := f.Set(probeKey, "1"); err != nil {
		return false
	}
	if err := f.Remove(probeKey); err != nil {
		return false
	}
	return true
}
