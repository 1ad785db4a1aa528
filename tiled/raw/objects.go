package raw

import (
	"encoding/xml"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/automoto/tilechunk/shared/geom"
	"github.com/automoto/tilechunk/tiled/source"
)

// DrawOrder of an object group.
type DrawOrder uint8

const (
	DrawTopDown DrawOrder = iota
	DrawIndex
)

// ObjectGroup is an <objectgroup>, either a map layer or a tile's collision
// shapes.
type ObjectGroup struct {
	LayerHeader
	Color     Optional[color.NRGBA]
	DrawOrder DrawOrder
	Objects   []*Object
}

// Shape is one of Rectangle, Ellipse, Point, Polygon or Polyline.
type Shape interface {
	isShape()
}

// Rectangle is the shape of an <object> with no shape child.
type Rectangle struct{}

type Ellipse struct{}

type Point struct{}

// Polygon points are relative to the object position.
type Polygon struct {
	Points []geom.Vec2
}

// Polyline points are relative to the object position.
type Polyline struct {
	Points []geom.Vec2
}

func (Rectangle) isShape() {}
func (Ellipse) isShape()   {}
func (Point) isShape()     {}
func (Polygon) isShape()   {}
func (Polyline) isShape()  {}

// Object is an <object>. Rotation is in degrees, clockwise.
type Object struct {
	Order      ParseOrder
	ID         int
	Name       string
	Type       string
	X, Y       float64
	Width      float64
	Height     float64
	Rotation   float64
	GID        Optional[GlobalTileID]
	Visible    bool
	Template   Optional[source.Source]
	Properties Properties
	Shape      Shape
	Text       *Text
}

func parseObjectGroup(ctx *Context, el xml.StartElement) (*ObjectGroup, error) {
	g := &ObjectGroup{}
	var draworder string
	attrs := append(g.attrs(ctx),
		Opt("color", Maybe(&g.Color, ParseColor)),
		Opt("draworder", String(&draworder)),
	)
	err := ctx.Parse(el, Schema{
		Attrs: attrs,
		Children: []Child{
			g.propertiesChild(),
			On("object", func(ctx *Context, el xml.StartElement) error {
				o, err := parseObject(ctx, el)
				if err != nil {
					return err
				}
				g.Objects = append(g.Objects, o)
				return nil
			}),
		},
	})
	if err != nil {
		return nil, err
	}
	if draworder == "index" {
		g.DrawOrder = DrawIndex
	}
	return g, nil
}

func parseObject(ctx *Context, el xml.StartElement) (*Object, error) {
	o := &Object{Order: ctx.NextOrder(), Visible: true, Shape: Rectangle{}}
	var template string
	err := ctx.Parse(el, Schema{
		Attrs: []Attr{
			Req("id", Int(&o.ID)),
			Req("x", Float(&o.X)),
			Req("y", Float(&o.Y)),
			Opt("name", String(&o.Name)),
			Opt("type", String(&o.Type)),
			Opt("class", String(&o.Type)),
			Opt("width", Float(&o.Width)),
			Opt("height", Float(&o.Height)),
			Opt("rotation", Float(&o.Rotation)),
			Opt("gid", Maybe(&o.GID, func(s string) (GlobalTileID, error) {
				v, err := parseUint32(s)
				return GlobalTileID(v), err
			})),
			Opt("visible", Flag(&o.Visible)),
			Opt("template", String(&template)),
		},
		Children: []Child{
			On("properties", func(ctx *Context, el xml.StartElement) error {
				props, err := parseProperties(ctx, el)
				o.Properties = props
				return err
			}),
			shapeChild("ellipse", &o.Shape, nil),
			shapeChild("point", &o.Shape, nil),
			shapeChild("polygon", &o.Shape, func(pts []geom.Vec2) Shape { return Polygon{Points: pts} }),
			shapeChild("polyline", &o.Shape, func(pts []geom.Vec2) Shape { return Polyline{Points: pts} }),
			On("text", func(ctx *Context, el xml.StartElement) error {
				t, err := parseText(ctx, el)
				o.Text = t
				return err
			}),
		},
	})
	if err != nil {
		return nil, err
	}

	if template != "" {
		src, err := ctx.Source.Relative(template)
		if err != nil {
			return nil, ctx.errorf("object", err, "object %d template %q", o.ID, template)
		}
		o.Template = Some(src)
	}
	return o, nil
}

// shapeChild parses a shape tag into dst. withPoints is nil for shapes that
// carry no points attribute.
func shapeChild(tag string, dst *Shape, withPoints func([]geom.Vec2) Shape) Child {
	return On(tag, func(ctx *Context, el xml.StartElement) error {
		if withPoints == nil {
			if err := ctx.Empty(el); err != nil {
				return err
			}
			switch tag {
			case "ellipse":
				*dst = Ellipse{}
			case "point":
				*dst = Point{}
			}
			return nil
		}

		var points string
		if err := ctx.Parse(el, Schema{Attrs: []Attr{Req("points", String(&points))}}); err != nil {
			return err
		}
		pts, err := ParsePoints(points)
		if err != nil {
			return ctx.errorf(tag, err, "%s.points", tag)
		}
		*dst = withPoints(pts)
		return nil
	})
}

// ParsePoints reads Tiled's "x,y x,y ..." point lists.
func ParsePoints(s string) ([]geom.Vec2, error) {
	fields := strings.Fields(s)
	pts := make([]geom.Vec2, 0, len(fields))
	for _, f := range fields {
		xs, ys, ok := strings.Cut(f, ",")
		if !ok {
			return nil, fmt.Errorf("malformed point %q", f)
		}
		x, err := strconv.ParseFloat(xs, 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", f, err)
		}
		y, err := strconv.ParseFloat(ys, 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", f, err)
		}
		pts = append(pts, geom.V(x, y))
	}
	return pts, nil
}
