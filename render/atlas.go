package render

import (
	"image"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/automoto/tilechunk/tiled/source"
	"github.com/automoto/tilechunk/tiled/tilemap"
	"github.com/automoto/tilechunk/tiled/tileset"
)

// Atlas turns tile ids into ebiten sub-images. Tileset images are decoded
// on first use; a tileset whose image fails to load is logged once and then
// drawn as nothing.
type Atlas struct {
	sets  *tilemap.Tilesets
	pages map[*tileset.Tileset]*page
	load  func(source.Source) (image.Image, error)
}

type page struct {
	sheet *ebiten.Image
	tiles []*ebiten.Image
}

func NewAtlas(sets *tilemap.Tilesets) *Atlas {
	return &Atlas{
		sets:  sets,
		pages: make(map[*tileset.Tileset]*page),
		load:  LoadImage,
	}
}

// Tile returns the image of one tile, or nil.
func (a *Atlas) Tile(id tilemap.TileID) *ebiten.Image {
	ts := a.sets.Get(id.Tileset())
	if ts == nil || ts.Get(id.Tile()) == nil {
		return nil
	}
	p, ok := a.pages[ts]
	if !ok {
		p = a.open(ts)
		a.pages[ts] = p
	}
	if p == nil {
		return nil
	}
	if img := p.tiles[id.Tile()]; img != nil {
		return img
	}
	img := p.sheet.SubImage(ts.PixelRect(id.Tile())).(*ebiten.Image)
	p.tiles[id.Tile()] = img
	return img
}

func (a *Atlas) open(ts *tileset.Tileset) *page {
	img, err := a.load(ts.Image.Source)
	if err != nil {
		log.Printf("[render] tileset %q: %v", ts.Name, err)
		return nil
	}
	return &page{
		sheet: ebiten.NewImageFromImage(img),
		tiles: make([]*ebiten.Image, ts.TileCount()),
	}
}

// Image decodes a standalone image such as an image layer's, or returns nil.
func Image(img *tileset.Image) *ebiten.Image {
	if img == nil || img.Source.IsZero() {
		return nil
	}
	src, err := LoadImage(img.Source)
	if err != nil {
		log.Printf("[render] %v", err)
		return nil
	}
	return ebiten.NewImageFromImage(src)
}
