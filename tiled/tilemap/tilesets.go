package tilemap

import (
	"fmt"

	"github.com/automoto/tilechunk/shared/geom"
	"github.com/automoto/tilechunk/tiled/raw"
	"github.com/automoto/tilechunk/tiled/tileset"
)

// Range is the half-open global id range [Start, End) claimed by a tileset.
type Range struct {
	Start uint32
	End   uint32
}

func (r Range) Len() int {
	return int(r.End - r.Start)
}

func (r Range) Contains(gid uint32) bool {
	return gid >= r.Start && gid < r.End
}

type tilesetEntry struct {
	rng Range
	set *tileset.Tileset
}

// Tilesets maps the global id space of one map onto its tilesets. Entries
// keep document order; TilesetID n names the n-th entry.
type Tilesets struct {
	entries []tilesetEntry
}

// TilesetsFromRaw resolves every tileset reference of a map. A tileset
// document referenced more than once is resolved once and shared.
func TilesetsFromRaw(refs []*raw.MapTileset, tileSize geom.Vec2) (*Tilesets, error) {
	resolved := make(map[*raw.Tileset]*tileset.Tileset)
	sets := &Tilesets{entries: make([]tilesetEntry, 0, len(refs))}
	for _, ref := range refs {
		ts, ok := resolved[ref.Tileset]
		if !ok {
			var err error
			ts, err = tileset.FromRaw(ref.Tileset, tileSize)
			if err != nil {
				return nil, fmt.Errorf("tileset at firstgid %d: %w", ref.FirstGID, err)
			}
			resolved[ref.Tileset] = ts
		}
		start := uint32(ref.FirstGID)
		sets.Add(Range{Start: start, End: start + uint32(ts.TileCount())}, ts)
	}
	if err := sets.Validate(); err != nil {
		return nil, err
	}
	return sets, nil
}

// Add appends a tileset claiming rng and returns its id.
func (s *Tilesets) Add(rng Range, ts *tileset.Tileset) TilesetID {
	s.entries = append(s.entries, tilesetEntry{rng: rng, set: ts})
	return TilesetID(len(s.entries))
}

// Validate checks that ranges ascend without overlapping and that each
// matches its tileset's tile count.
func (s *Tilesets) Validate() error {
	if len(s.entries) > 0xffff {
		return invalid("tilesets", "%d tilesets do not fit a tileset id", len(s.entries))
	}
	var prev Range
	for i, e := range s.entries {
		if e.rng.End < e.rng.Start || e.rng.Start < prev.End {
			return invalid("tilesets", "ranges overlap: %v and %v", prev, e.rng)
		}
		if e.rng.Start == 0 {
			return invalid("tilesets", "range %v starts at the empty gid", e.rng)
		}
		if e.set == nil {
			return invalid("tilesets", "range %v has no tileset", e.rng)
		}
		if e.rng.Len() != e.set.TileCount() {
			return invalid("tilesets", "range length mismatch: %v holds %d ids for %d tiles",
				e.rng, e.rng.Len(), e.set.TileCount())
		}
		if err := e.set.Validate(); err != nil {
			return &ValidationError{What: "tilesets", Msg: fmt.Sprintf("tileset %d", i+1), Err: err}
		}
		prev = e.rng
	}
	return nil
}

// TileFromRaw resolves a global id. Flip bits are ignored and ids outside
// every range resolve to EmptyTile.
func (s *Tilesets) TileFromRaw(gid raw.GlobalTileID) TileID {
	id := uint32(gid.ID())
	for i, e := range s.entries {
		if id < e.rng.Start {
			break
		}
		if id < e.rng.End {
			return NewTileID(TilesetID(i+1), LocalTileID(id-e.rng.Start))
		}
	}
	return EmptyTile
}

// Get returns the tileset named by id, or nil.
func (s *Tilesets) Get(id TilesetID) *tileset.Tileset {
	if id == 0 || int(id) > len(s.entries) {
		return nil
	}
	return s.entries[id-1].set
}

// GetTile returns the tile named by id, or nil for the empty tile.
func (s *Tilesets) GetTile(id TileID) *tileset.Tile {
	ts := s.Get(id.Tileset())
	if ts == nil {
		return nil
	}
	return ts.Get(id.Tile())
}

// Range returns the global id range of id.
func (s *Tilesets) Range(id TilesetID) (Range, bool) {
	if id == 0 || int(id) > len(s.entries) {
		return Range{}, false
	}
	return s.entries[id-1].rng, true
}

func (s *Tilesets) Len() int {
	return len(s.entries)
}

// IDs lists every tileset id in order.
func (s *Tilesets) IDs() []TilesetID {
	ids := make([]TilesetID, len(s.entries))
	for i := range ids {
		ids[i] = TilesetID(i + 1)
	}
	return ids
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}
