// Package source identifies on-disk documents by canonical absolute path.
package source

import (
	"fmt"
	"os"
	"path/filepath"
)

// Source is the canonical, symlink-resolved absolute path of a document.
// Two Sources are equal iff they name the same file, so a Source is usable
// as a map key.
type Source struct {
	Path string `json:"path" codec:"path"`
}

// NewFile canonicalizes path. The file must exist.
func NewFile(path string) (Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Source{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return Source{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	return Source{Path: real}, nil
}

// NewPath canonicalizes path without requiring the file to exist. Symlinks
// are resolved only when it does.
func NewPath(path string) (Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Source{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return Source{Path: real}, nil
	}
	return Source{Path: filepath.Clean(abs)}, nil
}

func (s Source) join(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(filepath.Dir(s.Path), filepath.FromSlash(rel))
}

// Relative resolves rel against the directory holding s. The file must exist.
func (s Source) Relative(rel string) (Source, error) {
	return NewFile(s.join(rel))
}

// RelativePath resolves rel against the directory holding s like Relative,
// but a missing file is not an error.
func (s Source) RelativePath(rel string) (Source, error) {
	return NewPath(s.join(rel))
}

// ReadAll returns the file contents.
func (s Source) ReadAll() ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return data, nil
}

func (s Source) IsZero() bool {
	return s.Path == ""
}

func (s Source) String() string {
	return s.Path
}

// Reader fetches the bytes behind a Source. Parsing goes through a Reader so
// callers can count or intercept file access.
type Reader interface {
	ReadSource(s Source) ([]byte, error)
}

// OSReader reads straight from the filesystem.
type OSReader struct{}

func (OSReader) ReadSource(s Source) ([]byte, error) {
	return s.ReadAll()
}
