package raw

import (
	"encoding/xml"
	"image/color"

	"github.com/automoto/tilechunk/tiled/source"
)

// Image is an <image> reference, resolved against the document it appears in.
type Image struct {
	Source      source.Source
	Width       int
	Height      int
	Transparent Optional[color.NRGBA]
}

func parseImage(ctx *Context, el xml.StartElement) (*Image, error) {
	var (
		img Image
		rel string
	)
	err := ctx.Parse(el, Schema{
		Attrs: []Attr{
			Req("source", String(&rel)),
			Req("width", Int(&img.Width)),
			Req("height", Int(&img.Height)),
			Opt("trans", Maybe(&img.Transparent, ParseColor)),
		},
	})
	if err != nil {
		return nil, err
	}

	img.Source, err = ctx.Source.RelativePath(rel)
	if err != nil {
		return nil, ctx.errorf("image", err, "image source %q", rel)
	}
	return &img, nil
}
