package feed

import (
	"context"
	"fmt"
	"os"

	"sigscan/internal/signature"
)

// FileFeed reads a previously downloaded feed from disk.
type FileFeed struct {
	path string
	key  []byte
}

// Assert that FileFeed implements the Feed interface
var _ Feed = (*FileFeed)(nil)

// NewFileFeed creates a FileFeed. A nil key reads a plain JSON document.
func NewFileFeed(path string, key []byte) *FileFeed {
	return &FileFeed{path: path, key: key}
}

func (f *FileFeed) Fetch(ctx context.Context) ([]signature.Encoded, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed file '%s': %w", f.path, err)
	}
	return decode(data, f.key)
}
