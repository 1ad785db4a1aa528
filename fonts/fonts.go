package fonts

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

type FontName string

const (
	HUD      FontName = "hud"
	HUDSmall FontName = "hud-small"
)

// Size is the point size each font is loaded at.
var Size = map[FontName]float64{
	HUD:      12,
	HUDSmall: 10,
}

func (f FontName) Get() text.Face {
	return getFont(f)
}

var (
	fonts = map[FontName]text.Face{}
)

// LoadFont registers name from a TTF or OTF file at its configured size.
func LoadFont(name FontName, ttf []byte) error {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(ttf))
	if err != nil {
		return fmt.Errorf("font %s: %w", name, err)
	}
	fonts[name] = &text.GoTextFace{Source: src, Size: Size[name]}
	return nil
}

// LoadDefaults registers every font from Go Regular.
func LoadDefaults() error {
	for name := range Size {
		if err := LoadFont(name, goregular.TTF); err != nil {
			return err
		}
	}
	return nil
}

func getFont(name FontName) text.Face {
	f, ok := fonts[name]
	if !ok {
		panic(fmt.Sprintf("Font %s not found", name))
	}
	return f
}
