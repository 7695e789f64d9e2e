// Package sink provides destinations for generated files.
package sink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/broady/discogen/generr"
)

// OutputSink receives generated file content. Implementations must be safe
// for concurrent calls.
type OutputSink interface {
	// WriteFile writes content to a slash-separated path relative to the
	// sink's root.
	WriteFile(ctx context.Context, path string, content []byte) error
}

// FilesystemSink writes below a directory on the local filesystem.
type FilesystemSink struct {
	// Root is the output directory.
	Root string

	// Mode is the file permission mode (default 0644).
	Mode os.FileMode

	// Overwrite allows replacing an existing, non-empty output directory
	// and the files in it.
	Overwrite bool
}

// NewFilesystemSink creates a sink writing below root.
func NewFilesystemSink(root string, overwrite bool) *FilesystemSink {
	return &FilesystemSink{Root: root, Mode: 0o644, Overwrite: overwrite}
}

// Prepare checks the output directory and creates it. An existing,
// non-empty directory is a ConfigurationError unless Overwrite is set.
func (s *FilesystemSink) Prepare() error {
	info, err := os.Stat(s.Root)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return os.MkdirAll(s.Root, 0o755)
	case err != nil:
		return err
	case !info.IsDir():
		return generr.Config("outdir", "%q exists and is not a directory", s.Root)
	}
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return err
	}
	if len(entries) > 0 && !s.Overwrite {
		return generr.Config("outdir", "output directory %q already exists; use --overwrite to replace it", s.Root)
	}
	return nil
}

// WriteFile writes content atomically (temp file, then rename) and creates
// parent directories as needed. Without Overwrite, an existing file is a
// ConfigurationError.
func (s *FilesystemSink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath := filepath.Join(s.Root, filepath.FromSlash(path))
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	mode := s.Mode
	if mode == 0 {
		mode = 0o644
	}

	tmp, err := os.CreateTemp(dir, ".discogen-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_, writeErr := tmp.Write(content)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod %s: %w", path, err)
	}

	if s.Overwrite {
		if err := os.Rename(tmpPath, fullPath); err != nil {
			_ = os.Remove(tmpPath)
			return fmt.Errorf("rename %s: %w", path, err)
		}
		return nil
	}
	// Link fails with EEXIST instead of replacing the target.
	err = os.Link(tmpPath, fullPath)
	_ = os.Remove(tmpPath)
	if errors.Is(err, os.ErrExist) {
		return generr.Config("outdir", "file %q already exists; use --overwrite to replace it", path)
	}
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return nil
}

// MemorySink keeps generated files in memory.
type MemorySink struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

// WriteFile stores a copy of content under path.
func (s *MemorySink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = slices.Clone(content)
	return nil
}

// Get returns a copy of one file, or nil if it was never written.
func (s *MemorySink) Get(path string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.files[path]
	if !ok {
		return nil
	}
	return slices.Clone(content)
}

// Paths returns the written paths, sorted.
func (s *MemorySink) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.files))
	for p := range s.files {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// ValidatePath checks that path is relative, slash-separated, clean and
// free of ".." components.
func ValidatePath(path string) error {
	if path == "" {
		return errors.New("path is empty")
	}
	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return errors.New("absolute paths not allowed")
	}
	if len(path) >= 2 && path[1] == ':' {
		return errors.New("absolute paths not allowed")
	}
	for _, part := range strings.Split(path, "/") {
		if part == ".." {
			return errors.New("path traversal not allowed")
		}
	}
	if cleaned := filepath.ToSlash(filepath.Clean(path)); cleaned != path {
		return fmt.Errorf("path is not clean (expected %q)", cleaned)
	}
	return nil
}
