// Package render draws resolved maps with ebiten.
package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/automoto/tilechunk/tiled/source"
)

// LoadImage decodes the image behind src. PNG, JPEG, BMP and WebP are
// supported.
func LoadImage(src source.Source) (image.Image, error) {
	data, err := src.ReadAll()
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src, err)
	}
	return img, nil
}
