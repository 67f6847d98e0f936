package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
)

// Sink stores downloaded files.
type Sink interface {
	// Put stores the contents of r under p, replacing any existing file.
	Put(ctx context.Context, p string, r io.Reader) error
	// Exists reports whether p exists. With anyExt, a file with the same
	// name and a different extension also counts.
	Exists(ctx context.Context, p string, anyExt bool) (bool, error)
}

// DirManager is implemented by sinks with real directories.
type DirManager interface {
	MkdirAll(ctx context.Context, dir string) error
	// RemoveEmptyDirs removes each dir that exists and is empty.
	RemoveEmptyDirs(ctx context.Context, dirs ...string) error
}

// CleanPath normalises p to a slash-separated path and rejects parent references.
func CleanPath(p string) (string, error) {
	p = strings.ReplaceAll(p, `\`, "/")
	for seg := range strings.SplitSeq(p, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: %s", ErrInvalidPath, p)
		}
	}
	cleaned := path.Clean(p)
	if cleaned == "." || cleaned == "/" {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	return cleaned, nil
}

// Stem returns p without its extension.
func Stem(p string) string {
	return strings.TrimSuffix(p, path.Ext(p))
}
