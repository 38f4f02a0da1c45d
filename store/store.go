package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store writes artifacts into a single flat directory. Writes overwrite
// existing files of the same name and are not locked.
type Store struct {
	dir string
}

// New creates a Store rooted at dir. The directory is created lazily.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the output directory
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the full path a file name maps to
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// EnsureDir creates the output directory if it is missing
func (s *Store) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", s.dir, err)
	}
	return nil
}

// Write stores content under name and returns the written path
func (s *Store) Write(name, content string) (string, error) {
	if err := s.EnsureDir(); err != nil {
		return "", err
	}

	path := s.Path(name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
