package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// FileSystemStorage implements the Storage interface over every regular file
// below a directory tree.
type FileSystemStorage struct {
	fs billy.Filesystem
}

// Assert that FileSystemStorage implements the Storage interface
var _ Storage = (*FileSystemStorage)(nil)

// NewFileSystemStorage serves the files under baseDir, creating it if needed.
func NewFileSystemStorage(baseDir string) *FileSystemStorage {
	// Ensure the base directory exists
	os.MkdirAll(baseDir, 0755)
	return NewBillyStorage(osfs.New(baseDir))
}

// NewBillyStorage serves the files of any billy filesystem.
func NewBillyStorage(fs billy.Filesystem) *FileSystemStorage {
	return &FileSystemStorage{fs: fs}
}

// Root returns the location of the filesystem, if it has one.
func (s *FileSystemStorage) Root() string {
	return s.fs.Root()
}

func (s *FileSystemStorage) List(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	err := util.Walk(s.fs, "/", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		entries = append(entries, Entry{
			Name: strings.TrimPrefix(filepath.ToSlash(path), "/"),
			Size: info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", s.fs.Root(), err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (s *FileSystemStorage) Get(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.fs.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, name)
		}
		return nil, err
	}
	return f, nil
}
