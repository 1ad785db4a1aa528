package mapcache

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/automoto/tilechunk/config"
	"github.com/automoto/tilechunk/tiled/tilemap"
)

const sheetTSX = `<?xml version="1.0" encoding="UTF-8"?>
<tileset version="1.10" name="sheet" tilewidth="16" tileheight="16" tilecount="4" columns="2">
 <image source="sheet.png" width="32" height="32"/>
 <tile id="1">
  <properties><property name="flags" value="WALL"/></properties>
  <objectgroup><object id="1" x="0" y="0" width="16" height="16"/></objectgroup>
 </tile>
</tileset>
`

const levelTMX = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" width="4" height="1" tilewidth="16" tileheight="16" infinite="0">
 <tileset firstgid="1" source="sheet.tsx"/>
 <layer id="1" name="ground" width="4" height="1">
  <data encoding="csv">2,0,0,2</data>
 </layer>
</map>
`

func openStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("HOME", dir)

	prev := config.Cache.AppName
	config.Cache.AppName = "tilechunk_test"
	t.Cleanup(func() { config.Cache.AppName = prev })

	s, err := Open()
	require.NoError(t, err)
	return s
}

func writeLevel(t *testing.T, tmx string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sheet.tsx"), []byte(sheetTSX), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "level.tmx"), []byte(tmx), 0o644))
	return filepath.Join(dir, "level.tmx")
}

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"level1", "map_level1"},
		{"world/level-1", "map_world_level-1"},
		{"a b.tmx", "map_a_b_tmx"},
		{"", "map_"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.name))
		})
	}
}

func TestSaveLoadDelete(t *testing.T) {
	s := openStore(t)
	m, _, err := tilemap.LoadFile(writeLevel(t, levelTMX))
	require.NoError(t, err)

	_, ok, err := s.Load("level")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, s.Has("level"))

	require.NoError(t, s.Save("level", m))
	assert.True(t, s.Has("level"))

	got, ok, err := s.Load("level")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, m.Width, got.Width)
	require.Len(t, got.Layers, 1)
	assert.Equal(t, m.Layers[0].Data.Positions(), got.Layers[0].Data.Positions())
	assert.Equal(t, tilemap.NewTileID(1, 1), got.Layers[0].Data.Get(image.Pt(3, 0)))

	require.NoError(t, s.Delete("level"))
	assert.False(t, s.Has("level"))
}

func TestLoadOrCompile(t *testing.T) {
	s := openStore(t)
	path := writeLevel(t, levelTMX)

	m, _, err := s.LoadOrCompile("level", path)
	require.NoError(t, err)
	assert.Equal(t, 4, m.Width)
	assert.True(t, s.Has("level"))

	// the cached copy wins over the source once stored
	require.NoError(t, os.Remove(path))
	m, warnings, err := s.LoadOrCompile("level", path)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 4, m.Width)

	_, _, err = s.LoadOrCompile("missing", path)
	assert.Error(t, err)
	assert.False(t, s.Has("missing"))
}
