// Package fsio is the small filesystem surface the pipeline depends on, so
// tests can run against an in-memory implementation.
package fsio

import (
	"os"
	"path/filepath"
)

type Filesystem interface {
	Exists(path string) bool
	Read(path string) (string, error)
	Write(path, text string) error
}

// OS is the real-filesystem implementation. Write creates missing parent
// directories.
type OS struct{}

func (OS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OS) Read(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (OS) Write(path, text string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(text), 0o644)
}
