// Package local stores resumes on the local filesystem.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

type Storage struct {
	dir string
}

// New creates dir if it does not exist.
func New(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Storage{dir: dir}, nil
}

// Save writes r to a temporary file first and renames it into place, so a
// failed upload never leaves a partial resume behind.
func (s *Storage) Save(ctx context.Context, name string, r io.Reader, size int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst, err := s.path(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	src := r
	if size > 0 {
		src = io.LimitReader(r, size)
	}
	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write resume: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close resume: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("move resume into place: %w", err)
	}
	return nil
}

// Remove deletes the named file. A missing file is not an error.
func (s *Storage) Remove(_ context.Context, name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove resume: %w", err)
	}
	return nil
}

// path rejects names that would escape the upload directory.
func (s *Storage) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid resume name %q", name)
	}
	return filepath.Join(s.dir, name), nil
}
