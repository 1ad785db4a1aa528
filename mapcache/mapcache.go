// Package mapcache keeps compiled maps in the per-user data directory so a
// level is parsed from TMX once and loaded from its binary form afterwards.
package mapcache

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/quasilyte/gdata"

	"github.com/automoto/tilechunk/config"
	"github.com/automoto/tilechunk/tiled/tilemap"
)

const keyPrefix = "map_"

// Store is a gdata item store holding one compiled map per name.
type Store struct {
	m *gdata.Manager
}

// Open opens the store of config.Cache.AppName.
func Open() (*Store, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: config.Cache.AppName,
	})
	if err != nil {
		return nil, fmt.Errorf("open map cache: %w", err)
	}
	return &Store{m: m}, nil
}

// Key is the item key of name. Characters outside [A-Za-z0-9_-] become '_'.
func Key(name string) string {
	return keyPrefix + strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return '_'
	}, name)
}

// Save stores m under name.
func (s *Store) Save(name string, m *tilemap.Map) error {
	var buf bytes.Buffer
	if err := m.SaveBinary(&buf); err != nil {
		return err
	}
	if err := s.m.SaveItem(Key(name), buf.Bytes()); err != nil {
		return fmt.Errorf("save map %q: %w", name, err)
	}
	return nil
}

// Load returns the map stored under name. ok is false when there is none.
func (s *Store) Load(name string) (m *tilemap.Map, ok bool, err error) {
	data, err := s.m.LoadItem(Key(name))
	if err != nil {
		return nil, false, fmt.Errorf("load map %q: %w", name, err)
	}
	if len(data) == 0 {
		return nil, false, nil
	}
	m, err = tilemap.LoadBinary(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("load map %q: %w", name, err)
	}
	return m, true, nil
}

// Has reports whether a map is stored under name.
func (s *Store) Has(name string) bool {
	data, err := s.m.LoadItem(Key(name))
	return err == nil && len(data) > 0
}

// Delete clears the entry of name.
func (s *Store) Delete(name string) error {
	if err := s.m.SaveItem(Key(name), nil); err != nil {
		return fmt.Errorf("delete map %q: %w", name, err)
	}
	return nil
}

// LoadOrCompile returns the cached map of name, compiling tmxPath and
// caching the result when the entry is missing or unreadable. Warnings are
// only produced by a compile.
func (s *Store) LoadOrCompile(name, tmxPath string) (*tilemap.Map, []string, error) {
	m, ok, err := s.Load(name)
	switch {
	case err != nil:
		log.Printf("[mapcache] %v, recompiling", err)
	case ok:
		return m, nil, nil
	}

	m, warnings, err := tilemap.LoadFile(tmxPath)
	if err != nil {
		return nil, nil, err
	}
	if err := s.Save(name, m); err != nil {
		log.Printf("[mapcache] %v", err)
	}
	return m, warnings, nil
}
