package crosscheck

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/lafriks/go-tiled"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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
<map version="1.10" orientation="orthogonal" renderorder="right-down" width="3" height="2" tilewidth="16" tileheight="16" infinite="0" nextlayerid="5" nextobjectid="2">
 <tileset firstgid="1" source="sheet.tsx"/>
 <tileset firstgid="5" source="sheet.tsx"/>
 <layer id="1" name="ground" width="3" height="2">
  <data encoding="csv">
1,2,0,
0,6,8
</data>
 </layer>
 <group id="2" name="deco">
  <layer id="3" name="bg" width="3" height="2">
   <data encoding="csv">
0,0,0,
4,0,0
</data>
  </layer>
 </group>
 <objectgroup id="4" name="spawns">
  <object id="1" name="player" x="8" y="8"><point/></object>
 </objectgroup>
</map>
`

func writeDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestCheckAgrees(t *testing.T) {
	dir := writeDir(t, map[string]string{
		"level.tmx": levelTMX,
		"sheet.tsx": sheetTSX,
		"sheet.png": "",
	})

	report, err := Check(filepath.Join(dir, "level.tmx"))
	require.NoError(t, err)
	assert.Empty(t, report.Skipped)
	assert.Equal(t, 2, report.Layers)
	assert.Equal(t, 12, report.Tiles)
	assert.Empty(t, report.Mismatches)
	assert.Empty(t, report.Missing)
	assert.Equal(t, 1, report.ObjectsOurs)
	assert.True(t, report.OK())
}

func TestCheckDir(t *testing.T) {
	dir := writeDir(t, map[string]string{
		"b.tmx":     levelTMX,
		"a.tmx":     levelTMX,
		"sheet.tsx": sheetTSX,
		"sheet.png": "",
	})

	reports, names, err := CheckDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
	require.Contains(t, reports, "a")
	assert.True(t, reports["a"].OK())

	_, _, err = CheckDir(t.TempDir())
	assert.ErrorContains(t, err, "no .tmx files found")
}

func TestReportOK(t *testing.T) {
	r := &Report{ObjectsOurs: 1, ObjectsTheirs: 1}
	assert.True(t, r.OK())
	r.Mismatches = append(r.Mismatches, Mismatch{Layer: "ground", Ours: 2, Theirs: 3})
	assert.False(t, r.OK())
	assert.Equal(t, "ground (0,0): ours 2, go-tiled 3", r.Mismatches[0].String())
}

func sheetPNG(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.NRGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.String()
}

func TestPreview(t *testing.T) {
	dir := writeDir(t, map[string]string{
		"level.tmx": levelTMX,
		"sheet.tsx": sheetTSX,
		"sheet.png": sheetPNG(t),
	})

	var out bytes.Buffer
	require.NoError(t, Preview(filepath.Join(dir, "level.tmx"), &out))
	img, err := png.Decode(&out)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 48, 32), img.Bounds())
	_, _, _, a := img.At(8, 8).RGBA()
	assert.NotZero(t, a, "ground tile drawn")

	assert.Error(t, Preview(filepath.Join(dir, "missing.tmx"), &out))
}

const infiniteTMX = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" renderorder="right-down" width="16" height="16" tilewidth="16" tileheight="16" infinite="1" nextlayerid="2" nextobjectid="1">
 <tileset firstgid="1" source="sheet.tsx"/>
 <layer id="1" name="ground" width="16" height="16">
  <data encoding="csv">
   <chunk x="-16" y="0" width="16" height="16">
2,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,
0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,
0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,
0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,
0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,
0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,
0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,
0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,
0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,
0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,
0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,
0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,
0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,
0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,
0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,
0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,1
</chunk>
  </data>
 </layer>
</map>
`

func TestInfiniteMapsAreSkipped(t *testing.T) {
	dir := writeDir(t, map[string]string{
		"world.tmx": infiniteTMX,
		"sheet.tsx": sheetTSX,
		"sheet.png": sheetPNG(t),
	})
	path := filepath.Join(dir, "world.tmx")

	report, err := Check(path)
	require.NoError(t, err)
	assert.Equal(t, "infinite map", report.Skipped)
	assert.Zero(t, report.Layers)

	var out bytes.Buffer
	assert.ErrorContains(t, Preview(path, &out), "infinite")
}

func TestCompareLayerWithoutTileGrid(t *testing.T) {
	r := &Report{}
	theirs := &tiled.Map{Width: 3, Height: 2}
	ours := &tilemap.Map{Layers: []*tilemap.TileLayer{{Name: "ground"}}}
	r.compareLayer(ours, theirs, "ground", &tiled.Layer{Name: "ground"})
	assert.Equal(t, []string{"ground (no tile grid)"}, r.Missing)
	assert.Zero(t, r.Tiles)
}
