package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Backend names accepted by Open
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// Backends lists every backend name accepted by Open
func Backends() []string {
	return []string{BackendMemory, BackendFile, BackendBolt, BackendSQLite}
}

// Open creates the named backend. path is a directory for the file backend and a
// database file for bolt and sqlite; it is ignored for memory.
func Open(backend, path string) (Backend, error) {
	switch backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		return NewFileStore(path)
	case BackendBolt:
		file, err := prepareDBPath(path, "cultivation.db")
		if err != nil {
			return nil, err
		}
		return OpenBolt(file)
	case BackendSQLite:
		file, err := prepareDBPath(path, "cultivation.sqlite")
		if err != nil {
			return nil, err
		}
		return OpenSQLite(file)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// prepareDBPath resolves the database file and creates its parent directory.
// A path without an extension is treated as a directory.
func prepareDBPath(path, filename string) (string, error) {
	file := path
	switch {
	case path == "":
		file = filename
	case filepath.Ext(path) == "":
		file = filepath.Join(path, filename)
	}
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}
	return file, nil
}
