package storage

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"sync"

	sha256 "github.com/minio/sha256-simd"
)

// Assert that InMemoryStorage implements the Storage interface
var _ Storage = (*InMemoryStorage)(nil)

type InMemoryStorage struct {
	mu    sync.RWMutex
	store map[string][]byte
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		store: make(map[string][]byte),
	}
}

// Store saves the content of r under its SHA-256 address and returns it.
func (s *InMemoryStorage) Store(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(data)
	address := hex.EncodeToString(hash[:])

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[address] = data
	return address, nil
}

// StoreAt saves the content of r under name, replacing any previous object.
func (s *InMemoryStorage) StoreAt(name string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[name] = data
	return nil
}

func (s *InMemoryStorage) List(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]Entry, 0, len(s.store))
	for name, data := range s.store {
		entries = append(entries, Entry{Name: name, Size: int64(len(data))})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (s *InMemoryStorage) Get(ctx context.Context, name string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.store[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, name)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Snapshot copies every object of src into a new InMemoryStorage under its
// content address and returns the address of each source name. Objects with
// identical content share an address.
func Snapshot(ctx context.Context, src Storage) (*InMemoryStorage, map[string]string, error) {
	entries, err := src.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	mem := NewInMemoryStorage()
	addresses := make(map[string]string, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		rc, err := src.Get(ctx, entry.Name)
		if err != nil {
			return nil, nil, err
		}
		address, err := mem.Store(rc)
		rc.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to copy %s: %w", entry.Name, err)
		}
		addresses[entry.Name] = address
	}
	return mem, addresses, nil
}
