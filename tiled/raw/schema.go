package raw

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
)

// Optional is an attribute value that may be absent.
type Optional[T any] struct {
	Value T
	Valid bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Valid: true}
}

func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Valid
}

// Or returns the value, or def when absent.
func (o Optional[T]) Or(def T) T {
	if o.Valid {
		return o.Value
	}
	return def
}

// Attr describes one attribute of a tag.
type Attr struct {
	Name     string
	Required bool
	Set      func(value string) error
}

// Req declares a required attribute.
func Req(name string, set func(string) error) Attr {
	return Attr{Name: name, Required: true, Set: set}
}

// Opt declares an optional attribute. Set only runs when it is present, so
// targets keep whatever default they were initialized with.
func Opt(name string, set func(string) error) Attr {
	return Attr{Name: name, Set: set}
}

// Child handles one recognized child tag. Parse must consume the whole child
// element, closing tag included.
type Child struct {
	Tag   string
	Parse func(ctx *Context, el xml.StartElement) error
}

func On(tag string, parse func(*Context, xml.StartElement) error) Child {
	return Child{Tag: tag, Parse: parse}
}

// Schema is the declarative description of one element: its attributes,
// the children it understands and, when Text is set, where its character
// data goes. Unknown children are skipped with a warning.
type Schema struct {
	Attrs    []Attr
	Children []Child
	Text     *string
}

// Parse applies s to el and consumes everything up to and including el's
// closing tag.
func (ctx *Context) Parse(el xml.StartElement, s Schema) error {
	tag := el.Name.Local
	if err := ctx.Attrs(el, s.Attrs...); err != nil {
		return err
	}

	for {
		tok, err := ctx.dec.Token()
		if err != nil {
			return ctx.errorf(tag, err, "expected </%s>", tag)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			child := s.child(t.Name.Local)
			if child == nil {
				ctx.Warn("unknown tag <%s> inside <%s>", t.Name.Local, tag)
				if err := ctx.dec.Skip(); err != nil {
					return ctx.errorf(t.Name.Local, err, "skipping unknown tag")
				}
				continue
			}
			if err := child.Parse(ctx, t); err != nil {
				return err
			}
		case xml.EndElement:
			if t.Name.Local != tag {
				return ctx.errorf(tag, nil, "unexpected close tag </%s> (expected </%s>)", t.Name.Local, tag)
			}
			return nil
		case xml.CharData:
			if s.Text != nil {
				*s.Text += string(t)
				continue
			}
			if len(bytes.TrimSpace(t)) != 0 {
				return ctx.errorf(tag, nil, "unexpected text %q", bytes.TrimSpace(t))
			}
		}
	}
}

// Attrs reads attributes from el without consuming any tokens.
func (ctx *Context) Attrs(el xml.StartElement, attrs ...Attr) error {
	tag := el.Name.Local
	seen := make([]bool, len(attrs))
	for _, a := range el.Attr {
		for i, spec := range attrs {
			if spec.Name != a.Name.Local {
				continue
			}
			if err := spec.Set(a.Value); err != nil {
				return ctx.errorf(tag, err, "%s.%s parse failed", tag, spec.Name)
			}
			seen[i] = true
		}
	}
	for i, spec := range attrs {
		if spec.Required && !seen[i] {
			return ctx.errorf(tag, nil, "missing attribute %s.%s", tag, spec.Name)
		}
	}
	return nil
}

// Empty consumes an element the caller has no further interest in.
func (ctx *Context) Empty(el xml.StartElement) error {
	return ctx.Parse(el, Schema{})
}

func (s *Schema) child(tag string) *Child {
	for i := range s.Children {
		if s.Children[i].Tag == tag {
			return &s.Children[i]
		}
	}
	return nil
}

// String stores the attribute verbatim.
func String(dst *string) func(string) error {
	return func(v string) error {
		*dst = v
		return nil
	}
}

func Int(dst *int) func(string) error {
	return Into(dst, strconv.Atoi)
}

func Float(dst *float64) func(string) error {
	return Into(dst, parseFloat)
}

// Flag reads Tiled's 0/1 integer booleans.
func Flag(dst *bool) func(string) error {
	return Into(dst, parseFlag)
}

// Into stores conv(value).
func Into[T any](dst *T, conv func(string) (T, error)) func(string) error {
	return func(v string) error {
		x, err := conv(v)
		if err != nil {
			return err
		}
		*dst = x
		return nil
	}
}

// Maybe stores conv(value) into an Optional and marks it present.
func Maybe[T any](dst *Optional[T], conv func(string) (T, error)) func(string) error {
	return func(v string) error {
		x, err := conv(v)
		if err != nil {
			return err
		}
		*dst = Some(x)
		return nil
	}
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func parseString(s string) (string, error) {
	return s, nil
}

func parseFlag(s string) (bool, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return false, fmt.Errorf("expected 0 or 1: %w", err)
	}
	return i != 0, nil
}

func parseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	return uint32(v), err
}
