// Package crosscheck loads a TMX file with both this module's loader and
// github.com/lafriks/go-tiled and reports where the two disagree. It is a
// development aid for the tmxc verify command.
package crosscheck

import (
	"fmt"
	"image"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lafriks/go-tiled"

	"github.com/automoto/tilechunk/tiled/tilemap"
)

// Mismatch is one tile whose global id differs between the loaders.
type Mismatch struct {
	Layer  string
	Tile   image.Point
	Ours   uint32
	Theirs uint32
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s %v: ours %d, go-tiled %d", m.Layer, m.Tile, m.Ours, m.Theirs)
}

// Report is the result of checking one map.
type Report struct {
	Path          string
	Skipped       string // non-empty when the map could not be compared
	Layers        int
	Tiles         int
	Mismatches    []Mismatch
	Missing       []string // tile layers go-tiled has and we do not
	ObjectsOurs   int
	ObjectsTheirs int
}

// OK reports whether both loaders agree.
func (r *Report) OK() bool {
	return len(r.Mismatches) == 0 && len(r.Missing) == 0 && r.ObjectsOurs == r.ObjectsTheirs
}

// Check loads path with both loaders and compares tile layers and object
// counts. Infinite maps are skipped.
func Check(path string) (*Report, error) {
	ours, _, err := tilemap.LoadFile(path)
	if err != nil {
		return nil, err
	}
	report := &Report{Path: path}
	if ours.Infinite {
		report.Skipped = "infinite map"
		return report, nil
	}

	theirs, err := tiled.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("go-tiled load %s: %w", path, err)
	}
	report.ObjectsOurs = len(ours.Markers)

	var walk func(prefix string, layers []*tiled.Layer, groups []*tiled.Group, objects []*tiled.ObjectGroup)
	walk = func(prefix string, layers []*tiled.Layer, groups []*tiled.Group, objects []*tiled.ObjectGroup) {
		for _, l := range layers {
			report.compareLayer(ours, theirs, prefix+l.Name, l)
		}
		for _, og := range objects {
			report.ObjectsTheirs += len(og.Objects)
		}
		for _, g := range groups {
			walk(prefix+g.Name+"/", g.Layers, g.Groups, g.ObjectGroups)
		}
	}
	walk("", theirs.Layers, theirs.Groups, theirs.ObjectGroups)
	return report, nil
}

func (r *Report) compareLayer(ours *tilemap.Map, theirs *tiled.Map, name string, tl *tiled.Layer) {
	l := ours.Layer(name)
	if l == nil {
		r.Missing = append(r.Missing, name)
		return
	}
	if len(tl.Tiles) != theirs.Width*theirs.Height {
		r.Missing = append(r.Missing, name+" (no tile grid)")
		return
	}
	r.Layers++
	for y := 0; y < theirs.Height; y++ {
		for x := 0; x < theirs.Width; x++ {
			var want uint32
			if tile := tl.Tiles[y*theirs.Width+x]; !tile.IsNil() {
				want = tile.Tileset.FirstGID + tile.ID
			}
			pos := image.Pt(x, y)
			got := globalID(ours, l.Data.Get(pos))
			r.Tiles++
			if got != want {
				r.Mismatches = append(r.Mismatches, Mismatch{Layer: name, Tile: pos, Ours: got, Theirs: want})
			}
		}
	}
}

// globalID maps a resolved tile back into the document's id space.
func globalID(m *tilemap.Map, id tilemap.TileID) uint32 {
	if id.IsEmpty() {
		return 0
	}
	rng, ok := m.Tilesets.Range(id.Tileset())
	if !ok {
		return 0
	}
	return rng.Start + uint32(id.Tile())
}

// CheckDir checks every .tmx file in dir and returns the reports keyed by
// stem name plus the sorted list of names.
func CheckDir(dir string) (map[string]*Report, []string, error) {
	pattern := filepath.Join(dir, "*.tmx")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("no .tmx files found in %s", dir)
	}

	reports := make(map[string]*Report, len(matches))
	names := make([]string, 0, len(matches))
	for _, path := range matches {
		report, err := Check(path)
		if err != nil {
			return nil, nil, fmt.Errorf("check %s: %w", path, err)
		}
		stem := strings.TrimSuffix(filepath.Base(path), ".tmx")
		reports[stem] = report
		names = append(names, stem)
	}

	sort.Strings(names)
	return reports, names, nil
}
