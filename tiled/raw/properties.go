package raw

import (
	"encoding/xml"
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ErrUnknownPropertyType is returned for a <property type> outside the
// supported set.
var ErrUnknownPropertyType = errors.New("unknown property type")

// PropertyKind tags the value held by a Property.
type PropertyKind uint8

const (
	PropString PropertyKind = iota
	PropInt
	PropFloat
	PropBool
	PropColor
	PropFile
	PropObject
)

var propertyKinds = map[string]PropertyKind{
	"string": PropString,
	"int":    PropInt,
	"float":  PropFloat,
	"bool":   PropBool,
	"color":  PropColor,
	"file":   PropFile,
	"object": PropObject,
}

func (k PropertyKind) String() string {
	for name, kind := range propertyKinds {
		if kind == k {
			return name
		}
	}
	return fmt.Sprintf("PropertyKind(%d)", k)
}

// Property is a typed custom property. Only the field matching Kind is set;
// file references live in Str, object references in Int.
type Property struct {
	Kind  PropertyKind
	Str   string
	Int   int64
	Float float64
	Bool  bool
	Color color.NRGBA
}

// Properties is keyed by property name.
type Properties map[string]Property

// String returns a string or file property.
func (p Properties) String(name string) (string, bool) {
	prop, ok := p[name]
	if !ok || (prop.Kind != PropString && prop.Kind != PropFile) {
		return "", false
	}
	return prop.Str, true
}

func (p Properties) Int(name string) (int64, bool) {
	prop, ok := p[name]
	if !ok || (prop.Kind != PropInt && prop.Kind != PropObject) {
		return 0, false
	}
	return prop.Int, true
}

func (p Properties) Float(name string) (float64, bool) {
	prop, ok := p[name]
	if !ok || prop.Kind != PropFloat {
		return 0, false
	}
	return prop.Float, true
}

func (p Properties) Bool(name string) (bool, bool) {
	prop, ok := p[name]
	if !ok || prop.Kind != PropBool {
		return false, false
	}
	return prop.Bool, true
}

func parseProperties(ctx *Context, el xml.StartElement) (Properties, error) {
	props := make(Properties)
	err := ctx.Parse(el, Schema{
		Children: []Child{
			On("property", func(ctx *Context, el xml.StartElement) error {
				name, prop, err := parseProperty(ctx, el)
				if err != nil {
					return err
				}
				props[name] = prop
				return nil
			}),
		},
	})
	return props, err
}

// parseProperty reads one <property>. Multi-line strings are stored as text
// content instead of a value attribute.
func parseProperty(ctx *Context, el xml.StartElement) (string, Property, error) {
	var (
		name, kind = "", "string"
		value      Optional[string]
		text       string
	)
	err := ctx.Parse(el, Schema{
		Attrs: []Attr{
			Req("name", String(&name)),
			Opt("value", Maybe(&value, parseString)),
			Opt("type", String(&kind)),
		},
		Text: &text,
	})
	if err != nil {
		return "", Property{}, err
	}

	v := value.Or(text)
	k, ok := propertyKinds[kind]
	if !ok {
		return "", Property{}, ctx.errorf("property", ErrUnknownPropertyType, "property %q has type %q", name, kind)
	}

	prop := Property{Kind: k}
	switch k {
	case PropString, PropFile:
		prop.Str = v
	case PropInt, PropObject:
		prop.Int, err = strconv.ParseInt(v, 10, 64)
	case PropFloat:
		prop.Float, err = strconv.ParseFloat(v, 64)
	case PropBool:
		prop.Bool, err = strconv.ParseBool(v)
	case PropColor:
		if v != "" {
			prop.Color, err = ParseColor(v)
		}
	}
	if err != nil {
		return "", Property{}, ctx.errorf("property", err, "property %q value %q", name, v)
	}
	return name, prop, nil
}

// ParseColor reads #RRGGBB or #AARRGGBB, with or without the leading '#'.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	switch len(s) {
	case 6:
		return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	case 8:
		return color.NRGBA{A: uint8(v >> 24), R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
	}
	return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
}
