package storage

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/ironsheep/image-tiler/internal/tiling"
)

// DirStore keeps tiles as files in a single directory.
type DirStore struct {
	dir    string
	logger *log.Logger
}

// NewDirStore returns a store rooted at dir. The directory is created on
// the first Put if it does not exist yet.
func NewDirStore(dir string, logger *log.Logger) *DirStore {
	return &DirStore{
		dir:    dir,
		logger: logger,
	}
}

// Dir returns the directory the store writes to.
func (s *DirStore) Dir() string {
	return s.dir
}

// Put writes data to name inside the directory and returns the file path.
func (s *DirStore) Put(_ context.Context, name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create directory %s: %v", tiling.ErrFilesystem, s.dir, err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: write %s: %v", tiling.ErrFilesystem, path, err)
	}
	s.logger.Printf("wrote %s (%d bytes)", path, len(data))
	return path, nil
}

// Get reads the file called name.
func (s *DirStore) Get(_ context.Context, name string) ([]byte, error) {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", tiling.ErrFilesystem, path, err)
	}
	return data, nil
}

// List returns the names of the regular files in the directory, sorted.
// Hidden files and subdirectories are skipped.
func (s *DirStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", tiling.ErrFilesystem, s.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || e.Name()[0] == '.' {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
