// Package client is the Go SDK for the devsocial backend: session
// lifecycle, a typed API client, and the local like/favorite cache.
package client

import (
	"os"
	"path/filepath"
)

// Storage is the durable key-value store the session persists its
// artifacts in. Implementations must tolerate concurrent-process access
// only on a best-effort basis; the session treats every failure as
// non-fatal.
type Storage interface {
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
	Delete(key string) error
}

// FileStorage stores each key as a file under a directory in the user's
// config dir.
type FileStorage struct {
	dir string
}

// NewFileStorage creates a file-backed storage rooted at
// $XDG_CONFIG_HOME/<appName> (or ~/.config/<appName>).
func NewFileStorage(appName string) *FileStorage {
	return &FileStorage{dir: cfgDir(appName)}
}

// NewFileStorageAt creates a file-backed storage rooted at an explicit
// directory, used by tests.
func NewFileStorageAt(dir string) *FileStorage {
	return &FileStorage{dir: dir}
}

func cfgDir(appName string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// Read returns the stored value for the key
func (s *FileStorage) Read(key string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.dir, key))
}

// Write stores the value under the key
func (s *FileStorage) Write(key string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, key), data, 0o600)
}

// Delete removes the key; deleting a missing key is not an error
func (s *FileStorage) Delete(key string) error {
	err := os.Remove(filepath.Join(s.dir, key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
