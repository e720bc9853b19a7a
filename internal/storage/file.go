package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultDirName = ".tableorder"
	cartsDirName   = "carts"
	envStorageDir  = "TABLEORDER_STORAGE_DIR"
)

// File stores each key as one file in a directory.
type File struct {
	dir string
}

// NewFile creates a file store rooted at dir.
func NewFile(dir string) *File {
	return &File{dir: dir}
}

// NewDefaultFile creates a file store using env overrides or ~/.tableorder/carts.
func NewDefaultFile() (*File, error) {
	if dir := strings.TrimSpace(os.Getenv(envStorageDir)); dir != "" {
		return NewFile(dir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return NewFile(filepath.Join(home, defaultDirName, cartsDirName)), nil
}

// Dir returns the storage directory.
func (f *File) Dir() string {
	return f.dir
}

func (f *File) pathFor(key string) string {
	return filepath.Join(f.dir, url.QueryEscape(key)+".json")
}

// Get reads the value stored under key.
func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	payload, err := os.ReadFile(f.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return payload, nil
}

// Set writes value under key, replacing any previous file atomically.
func (f *File) Set(_ context.Context, key string, value []byte) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create storage directory: %w", err)
	}
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, f.pathFor(key)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Delete removes the file for key. Missing files are ignored.
func (f *File) Delete(_ context.Context, key string) error {
	if err := os.Remove(f.pathFor(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
