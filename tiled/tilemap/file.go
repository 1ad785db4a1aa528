package tilemap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnknownFormat is returned for paths that are neither .tmx, .json nor .bin.
var ErrUnknownFormat = errors.New("unknown map format")

func formatOf(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// OpenFile loads a map by extension. A .tmx is parsed; .json and .bin are
// compiled maps.
func OpenFile(path string) (*Map, []string, error) {
	var load func(io.Reader) (*Map, error)
	switch formatOf(path) {
	case ".tmx":
		return LoadFile(path)
	case ".json":
		load = LoadJSON
	case ".bin":
		load = LoadBinary
	default:
		return nil, nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	m, err := load(bufio.NewReader(f))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil, nil
}

// SaveFile writes m compiled to path: JSON for .json, binary for .bin.
func (m *Map) SaveFile(path string) error {
	var save func(io.Writer) error
	switch formatOf(path) {
	case ".json":
		save = m.SaveJSON
	case ".bin":
		save = m.SaveBinary
	default:
		return fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := save(w); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
