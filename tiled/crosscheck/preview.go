package crosscheck

import (
	"fmt"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/lafriks/go-tiled"
	"github.com/lafriks/go-tiled/render"

	"github.com/automoto/tilechunk/tiled/raw"
)

// Preview renders the visible tile layers of the TMX at path with go-tiled's
// renderer and writes the result to w as PNG. It is the reference picture
// the viewer's output can be compared against.
func Preview(path string, w io.Writer) error {
	doc, err := raw.ParseMap(path)
	if err != nil {
		return err
	}
	if doc.Value.Infinite {
		return fmt.Errorf("%s: go-tiled cannot render infinite maps", path)
	}

	fsys := os.DirFS(filepath.Dir(path))
	m, err := tiled.LoadFile(filepath.Base(path), tiled.WithFileSystem(fsys))
	if err != nil {
		return fmt.Errorf("go-tiled load %s: %w", path, err)
	}
	renderer, err := render.NewRendererWithFileSystem(m, fsys)
	if err != nil {
		return fmt.Errorf("go-tiled renderer %s: %w", path, err)
	}
	for i, layer := range m.Layers {
		if !layer.Visible || len(layer.Tiles) != m.Width*m.Height {
			continue
		}
		if err := renderer.RenderLayer(i); err != nil {
			log.Printf("[crosscheck] %s: layer %q: %v", path, layer.Name, err)
		}
	}
	if err := png.Encode(w, renderer.Result); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	return nil
}
