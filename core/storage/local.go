package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage stores files on the local filesystem.
type LocalStorage struct {
	root     string
	dirPerm  fs.FileMode
	filePerm fs.FileMode
}

// LocalOption configures a LocalStorage.
type LocalOption func(*LocalStorage)

// WithPermissions sets the modes of created directories and files.
func WithPermissions(dir, file fs.FileMode) LocalOption {
	return func(s *LocalStorage) {
		if dir != 0 {
			s.dirPerm = dir
		}
		if file != 0 {
			s.filePerm = file
		}
	}
}

// NewLocalStorage returns a sink rooted at root. With an empty root, paths are
// used as given, relative to the working directory or absolute.
func NewLocalStorage(root string, opts ...LocalOption) *LocalStorage {
	s := &LocalStorage{
		root:     root,
		dirPerm:  0o755,
		filePerm: 0o644,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LocalStorage) resolve(p string) (string, error) {
	cleaned, err := CleanPath(p)
	if err != nil {
		return "", err
	}
	if s.root == "" {
		return filepath.FromSlash(cleaned), nil
	}
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(cleaned, "/"))), nil
}

func (s *LocalStorage) Put(ctx context.Context, p string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(p)
	if err != nil {
		return err
	}

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, s.dirPerm); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToWriteFile, err)
	}

	tmp, err := os.CreateTemp(dir, ".parsekit-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToWriteFile, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrFailedToWriteFile, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToWriteFile, err)
	}
	if err := os.Chmod(tmpName, s.filePerm); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToWriteFile, err)
	}
	if err := os.Rename(tmpName, full); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToWriteFile, err)
	}
	return nil
}

func (s *LocalStorage) Exists(ctx context.Context, p string, anyExt bool) (bool, error) {
	full, err := s.resolve(p)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(full)
	switch {
	case err == nil:
		return true, nil
	case !errors.Is(err, fs.ErrNotExist):
		return false, err
	case !anyExt:
		return false, nil
	}

	dir := filepath.Dir(full)
	stem := filepath.Base(Stem(full))
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), stem+".") {
			return true, nil
		}
	}
	return false, nil
}

func (s *LocalStorage) MkdirAll(ctx context.Context, dir string) error {
	full, err := s.resolve(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(full, s.dirPerm); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToWriteFile, err)
	}
	return nil
}

func (s *LocalStorage) RemoveEmptyDirs(ctx context.Context, dirs ...string) error {
	var errs []error
	for _, dir := range dirs {
		full, err := s.resolve(dir)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		entries, err := os.ReadDir(full)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(entries) > 0 {
			continue
		}
		if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
