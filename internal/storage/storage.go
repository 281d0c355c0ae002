package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var (
	ErrObjectNotFound = errors.New("object not found")
)

// Storage dictates the requirements for a source of buffers to scan.
type Storage interface {
	// List returns every object, sorted by name.
	List(ctx context.Context) ([]Entry, error)
	// Get opens an object; it fails with ErrObjectNotFound for unknown names.
	Get(ctx context.Context, name string) (io.ReadCloser, error)
}

// Entry describes an object held by a Storage.
type Entry struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// ReadAll loads a whole object into memory.
func ReadAll(ctx context.Context, s Storage, name string) ([]byte, error) {
	rc, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}
