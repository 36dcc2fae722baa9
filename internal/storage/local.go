package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage implements ObjectStorage over a directory on disk.
// Used for single-machine deployments where the photo library lives
// next to the service.
type LocalStorage struct {
	basePath  string
	publicURL string
}

// NewLocalStorage creates a local filesystem storage rooted at basePath.
func NewLocalStorage(basePath, publicURL string) (*LocalStorage, error) {
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("storage directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage path %s is not a directory", basePath)
	}
	return &LocalStorage{
		basePath:  basePath,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}, nil
}

// resolve joins key onto the base path, rejecting traversal outside it.
func (ls *LocalStorage) resolve(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	full := filepath.Join(ls.basePath, clean)
	if !strings.HasPrefix(full, ls.basePath) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return full, nil
}

// Download opens a local file for reading.
func (ls *LocalStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	full, err := ls.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// GetURL returns the serving URL for a local object.
func (ls *LocalStorage) GetURL(key string) string {
	return ls.publicURL + "/" + strings.TrimPrefix(key, "/")
}

// Delete removes a local file.
func (ls *LocalStorage) Delete(_ context.Context, key string) error {
	full, err := ls.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Exists checks whether a local file exists.
func (ls *LocalStorage) Exists(_ context.Context, key string) (bool, error) {
	full, err := ls.resolve(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
