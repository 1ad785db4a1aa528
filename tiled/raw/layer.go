package raw

import (
	"encoding/xml"
	"sort"
)

// Layer is one of *TileLayer, *ObjectGroup, *ImageLayer or *GroupLayer.
type Layer interface {
	Header() *LayerHeader
	isLayer()
}

// LayerHeader holds the attributes every layer kind shares.
type LayerHeader struct {
	Order      ParseOrder
	ID         int
	Name       string
	OffsetX    float64
	OffsetY    float64
	Opacity    float64
	Visible    bool
	Properties Properties
}

func (h *LayerHeader) Header() *LayerHeader {
	return h
}

// attrs declares the shared attributes. Defaults are applied first so
// Opt leaves them in place when absent.
func (h *LayerHeader) attrs(ctx *Context) []Attr {
	h.Order = ctx.NextOrder()
	h.Opacity = 1
	h.Visible = true
	return []Attr{
		Opt("id", Int(&h.ID)),
		Opt("name", String(&h.Name)),
		Opt("offsetx", Float(&h.OffsetX)),
		Opt("offsety", Float(&h.OffsetY)),
		Opt("opacity", Float(&h.Opacity)),
		Opt("visible", Flag(&h.Visible)),
	}
}

func (h *LayerHeader) propertiesChild() Child {
	return On("properties", func(ctx *Context, el xml.StartElement) error {
		props, err := parseProperties(ctx, el)
		h.Properties = props
		return err
	})
}

// TileLayer is a <layer>.
type TileLayer struct {
	LayerHeader
	Width  int
	Height int
	Data   *Data
}

// ImageLayer is an <imagelayer>. Image is nil when the layer has none.
type ImageLayer struct {
	LayerHeader
	Image *Image
}

// GroupLayer is a <group> of nested layers in document order.
type GroupLayer struct {
	LayerHeader
	Layers []Layer
}

func (*TileLayer) isLayer()   {}
func (*ObjectGroup) isLayer() {}
func (*ImageLayer) isLayer()  {}
func (*GroupLayer) isLayer()  {}

// layerSet collects layers per kind while a container is parsed.
type layerSet struct {
	tiles, objects, images, groups []Layer
}

func (s *layerSet) children() []Child {
	return []Child{
		On("layer", collect(&s.tiles, parseTileLayer)),
		On("objectgroup", collect(&s.objects, parseObjectGroup)),
		On("imagelayer", collect(&s.images, parseImageLayer)),
		On("group", collect(&s.groups, parseGroupLayer)),
	}
}

func collect[T Layer](dst *[]Layer, parse func(*Context, xml.StartElement) (T, error)) func(*Context, xml.StartElement) error {
	return func(ctx *Context, el xml.StartElement) error {
		l, err := parse(ctx, el)
		if err != nil {
			return err
		}
		*dst = append(*dst, l)
		return nil
	}
}

// combine merges the per-kind lists back into document order.
func (s *layerSet) combine() []Layer {
	var out []Layer
	for _, list := range [][]Layer{s.tiles, s.objects, s.images, s.groups} {
		out = append(out, list...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Header().Order < out[j].Header().Order
	})
	return out
}

func parseTileLayer(ctx *Context, el xml.StartElement) (*TileLayer, error) {
	l := &TileLayer{}
	attrs := append(l.attrs(ctx),
		Opt("width", Int(&l.Width)),
		Opt("height", Int(&l.Height)),
	)
	err := ctx.Parse(el, Schema{
		Attrs: attrs,
		Children: []Child{
			l.propertiesChild(),
			On("data", func(ctx *Context, el xml.StartElement) error {
				d, err := parseData(ctx, el)
				l.Data = d
				return err
			}),
		},
	})
	if err != nil {
		return nil, err
	}
	if l.Data == nil {
		return nil, ctx.errorf("layer", nil, "<layer> is missing <data> tag")
	}
	return l, nil
}

func parseImageLayer(ctx *Context, el xml.StartElement) (*ImageLayer, error) {
	l := &ImageLayer{}
	err := ctx.Parse(el, Schema{
		Attrs: l.attrs(ctx),
		Children: []Child{
			l.propertiesChild(),
			On("image", func(ctx *Context, el xml.StartElement) error {
				img, err := parseImage(ctx, el)
				l.Image = img
				return err
			}),
		},
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func parseGroupLayer(ctx *Context, el xml.StartElement) (*GroupLayer, error) {
	l := &GroupLayer{}
	var set layerSet
	err := ctx.Parse(el, Schema{
		Attrs:    l.attrs(ctx),
		Children: append(set.children(), l.propertiesChild()),
	})
	if err != nil {
		return nil, err
	}
	l.Layers = set.combine()
	return l, nil
}
