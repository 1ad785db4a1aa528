// Package raw parses Tiled TMX/TSX documents into an unresolved document
// model. Elements are consumed by a small schema-driven driver (see Schema)
// and externally referenced tilesets are parsed once per canonical path.
package raw

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/automoto/tilechunk/tiled/source"
)

// ParseOrder records the position at which an element started, so layers
// collected into separate lists can be merged back into document order.
type ParseOrder int

// ParseError reports malformed input. It is fatal to the load.
type ParseError struct {
	Source string
	Line   int
	Tag    string
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse %s:%d <%s>: %s", e.Source, e.Line, e.Tag, e.Msg)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Context is the state for parsing one XML document. Sub-contexts created for
// external tilesets get their own decoder but share the tileset cache,
// warnings, reader and parse-order counter with their parent.
type Context struct {
	Source source.Source

	dec    *xml.Decoder
	shared *shared
}

type shared struct {
	reader   source.Reader
	tilesets map[source.Source]*Tileset
	warnings []string
	order    ParseOrder
}

// Option configures a parse.
type Option func(*shared)

// WithReader routes every document read through r.
func WithReader(r source.Reader) Option {
	return func(s *shared) {
		s.reader = r
	}
}

// ParseFunc parses the element el, including its closing tag.
type ParseFunc[T any] func(ctx *Context, el xml.StartElement) (T, error)

// Result is a parsed document plus everything collected on the way.
type Result[T any] struct {
	Value    T
	Warnings []string
	Tilesets map[source.Source]*Tileset
}

// Parse reads src and hands its root element, which must be named root, to fn.
func Parse[T any](src source.Source, root string, fn ParseFunc[T], opts ...Option) (*Result[T], error) {
	sh := &shared{
		reader:   source.OSReader{},
		tilesets: make(map[source.Source]*Tileset),
	}
	for _, opt := range opts {
		opt(sh)
	}

	data, err := sh.reader.ReadSource(src)
	if err != nil {
		return nil, err
	}

	ctx := newContext(src, data, sh)
	v, err := parseRoot[T](ctx, root, fn)
	if err != nil {
		return nil, err
	}
	return &Result[T]{Value: v, Warnings: sh.warnings, Tilesets: sh.tilesets}, nil
}

// ParseMap loads a .tmx file.
func ParseMap(path string, opts ...Option) (*Result[*Map], error) {
	src, err := source.NewFile(path)
	if err != nil {
		return nil, err
	}
	return Parse[*Map](src, "map", parseMap, opts...)
}

// ParseTileset loads a standalone .tsx file.
func ParseTileset(path string, opts ...Option) (*Result[*Tileset], error) {
	src, err := source.NewFile(path)
	if err != nil {
		return nil, err
	}
	return Parse[*Tileset](src, "tileset", parseTileset, opts...)
}

func newContext(src source.Source, data []byte, sh *shared) *Context {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true
	return &Context{Source: src, dec: dec, shared: sh}
}

// subparse parses another document with a fresh decoder that shares the
// parent's cache and warnings.
func subparse[T any](ctx *Context, src source.Source, root string, fn ParseFunc[T]) (T, error) {
	var zero T
	data, err := ctx.shared.reader.ReadSource(src)
	if err != nil {
		return zero, err
	}
	return parseRoot[T](newContext(src, data, ctx.shared), root, fn)
}

func parseRoot[T any](ctx *Context, root string, fn ParseFunc[T]) (T, error) {
	var zero T
	for {
		tok, err := ctx.dec.Token()
		if err != nil {
			return zero, ctx.errorf(root, err, "bad document")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != root {
				return zero, ctx.errorf(root, nil, "bad document, root is <%s>", t.Name.Local)
			}
			return fn(ctx, t)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return zero, ctx.errorf(root, nil, "unexpected text before root")
			}
		}
	}
}

// Warn records a recoverable problem.
func (ctx *Context) Warn(format string, args ...any) {
	ctx.shared.warnings = append(ctx.shared.warnings,
		fmt.Sprintf("%s: ", ctx.Source)+fmt.Sprintf(format, args...))
}

// Warnings returns everything recorded so far across all sub-contexts.
func (ctx *Context) Warnings() []string {
	return ctx.shared.warnings
}

// NextOrder hands out increasing parse-order stamps.
func (ctx *Context) NextOrder() ParseOrder {
	ctx.shared.order++
	return ctx.shared.order
}

func (ctx *Context) errorf(tag string, err error, format string, args ...any) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return err
	}
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	line, _ := ctx.dec.InputPos()
	return &ParseError{
		Source: ctx.Source.String(),
		Line:   line,
		Tag:    tag,
		Msg:    fmt.Sprintf(format, args...),
		Err:    err,
	}
}
