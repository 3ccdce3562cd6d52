// Package file provides read-only access to a tree of configuration files,
// either on the local filesystem or in an S3-compatible bucket.
//
// Paths are slash separated and relative to the storage root. The empty path
// (or ".") addresses the root itself.
package file

import (
	"context"
	"path"
	"strings"
)

// Entry represents a file or directory entry.
type Entry struct {
	Name  string
	Path  string
	IsDir bool
	Size  int64
}

// Storage is implemented by every backend.
type Storage interface {
	// List returns the immediate children of dir, directories first, each
	// group sorted by name.
	List(ctx context.Context, dir string) ([]Entry, error)
	// Read returns the full contents of a file.
	Read(ctx context.Context, path string) ([]byte, error)
	// Exists reports whether a file exists at path.
	Exists(ctx context.Context, path string) bool
}

// Ext returns the lowercase extension of name without the dot.
func Ext(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}

// Base returns name without its directory and extension.
func Base(name string) string {
	base := path.Base(name)
	return strings.TrimSuffix(base, path.Ext(base))
}

// cleanRel normalizes a relative storage path and rejects anything that would
// escape the root.
func cleanRel(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	if p == "" {
		return "", nil
	}
	cleaned := path.Clean("/" + p)
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", ErrInvalidPath
		}
	}
	return strings.TrimPrefix(cleaned, "/"), nil
}
