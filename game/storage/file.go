package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps each key in its own text file inside a directory
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store, creating dir if it doesn't exist
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (fs *FileStore) Get(key string) (string, error) {
	path, err := fs.getFilePath(key)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read storage file: %w", err)
	}
	return string(data), nil
}

// Set writes through a temporary file and renames it over the old value
func (fs *FileStore) Set(key, value string) error {
	path, err := fs.getFilePath(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(fs.dir, "."+key+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close storage file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}

// Close is a no-op; files are not held open between calls
func (fs *FileStore) Close() error {
	return nil
}

// getFilePath returns the file path for a key. Keys must be plain file names.
func (fs *FileStore) getFilePath(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(fs.dir, key+".txt"), nil
}
