package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelativeCanonicalizes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "maps"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tilesets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "maps", "a.tmx"), []byte("map"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tilesets", "x.tsx"), []byte("tileset"), 0o644))

	m, err := NewFile(filepath.Join(dir, "maps", "a.tmx"))
	require.NoError(t, err)

	viaParent, err := m.Relative("../tilesets/x.tsx")
	require.NoError(t, err)
	direct, err := NewFile(filepath.Join(dir, "tilesets", ".", "x.tsx"))
	require.NoError(t, err)

	assert.Equal(t, direct, viaParent)
	assert.True(t, filepath.IsAbs(direct.Path))

	data, err := viaParent.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "tileset", string(data))
}

func TestSymlinkResolvesToSameSource(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.tsx")
	link := filepath.Join(dir, "link.tsx")
	require.NoError(t, os.WriteFile(target, nil, 0o644))
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	a, err := NewFile(target)
	require.NoError(t, err)
	b, err := NewFile(link)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestMissingFile(t *testing.T) {
	_, err := NewFile(filepath.Join(t.TempDir(), "nope.tmx"))
	assert.Error(t, err)
}

func TestRelativePathAllowsMissing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.tmx"), nil, 0o644))
	m, err := NewFile(filepath.Join(dir, "a.tmx"))
	require.NoError(t, err)

	_, err = m.Relative("img/missing.png")
	assert.Error(t, err)

	img, err := m.RelativePath("img/../img/missing.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(m.Path), "img", "missing.png"), img.Path)

	// an existing file resolves the same way under both
	viaPath, err := m.RelativePath("a.tmx")
	require.NoError(t, err)
	assert.Equal(t, m, viaPath)
}
