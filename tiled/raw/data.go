package raw

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// ErrUnsupportedCompression is returned for a <data compression> other than
// gzip or zlib.
var ErrUnsupportedCompression = errors.New("unsupported compression")

// GlobalTileID is a document-wide tile reference. The top bits carry Tiled's
// flip flags.
type GlobalTileID uint32

// LocalTileID indexes a tile inside one tileset.
type LocalTileID uint32

const (
	FlipHorizontal GlobalTileID = 0x80000000
	FlipVertical   GlobalTileID = 0x40000000
	FlipDiagonal   GlobalTileID = 0x20000000
	RotateHex120   GlobalTileID = 0x10000000

	flipMask = FlipHorizontal | FlipVertical | FlipDiagonal | RotateHex120
)

// ID strips the flip flags.
func (g GlobalTileID) ID() GlobalTileID {
	return g &^ flipMask
}

// Flips returns only the flip flags.
func (g GlobalTileID) Flips() GlobalTileID {
	return g & flipMask
}

// Data is a layer's <data>. Finite maps fill Tiles; infinite maps fill Chunks.
type Data struct {
	Encoding    string
	Compression string
	Tiles       []GlobalTileID
	Chunks      []Chunk
}

func (d *Data) Chunked() bool {
	return len(d.Chunks) > 0
}

// Chunk is one <chunk> of an infinite map, in tile coordinates.
type Chunk struct {
	X, Y          int
	Width, Height int
	Tiles         []GlobalTileID
}

func parseData(ctx *Context, el xml.StartElement) (*Data, error) {
	var (
		d     Data
		text  string
		tiles []GlobalTileID
	)
	err := ctx.Parse(el, Schema{
		Attrs: []Attr{
			Opt("encoding", String(&d.Encoding)),
			Opt("compression", String(&d.Compression)),
		},
		Text: &text,
		Children: []Child{
			On("chunk", func(ctx *Context, el xml.StartElement) error {
				c, err := parseChunk(ctx, el, d.Encoding, d.Compression)
				if err != nil {
					return err
				}
				d.Chunks = append(d.Chunks, c)
				return nil
			}),
			xmlTileChild(&tiles),
		},
	})
	if err != nil {
		return nil, err
	}
	if d.Chunked() {
		return &d, nil
	}

	d.Tiles, err = decodeTiles(d.Encoding, d.Compression, text, tiles)
	if err != nil {
		return nil, ctx.errorf("data", err, "decoding tile data")
	}
	return &d, nil
}

func parseChunk(ctx *Context, el xml.StartElement, encoding, compression string) (Chunk, error) {
	var (
		c     Chunk
		text  string
		tiles []GlobalTileID
	)
	err := ctx.Parse(el, Schema{
		Attrs: []Attr{
			Req("x", Int(&c.X)),
			Req("y", Int(&c.Y)),
			Req("width", Int(&c.Width)),
			Req("height", Int(&c.Height)),
		},
		Text:     &text,
		Children: []Child{xmlTileChild(&tiles)},
	})
	if err != nil {
		return Chunk{}, err
	}

	c.Tiles, err = decodeTiles(encoding, compression, text, tiles)
	if err != nil {
		return Chunk{}, ctx.errorf("chunk", err, "decoding chunk (%d, %d)", c.X, c.Y)
	}
	if len(c.Tiles) != c.Width*c.Height {
		return Chunk{}, ctx.errorf("chunk", nil, "chunk size mismatch: %d tiles for %dx%d",
			len(c.Tiles), c.Width, c.Height)
	}
	return c, nil
}

// xmlTileChild collects <tile gid> children used by the XML encoding.
func xmlTileChild(dst *[]GlobalTileID) Child {
	return On("tile", func(ctx *Context, el xml.StartElement) error {
		var gid uint32
		if err := ctx.Parse(el, Schema{Attrs: []Attr{Opt("gid", Into(&gid, parseUint32))}}); err != nil {
			return err
		}
		*dst = append(*dst, GlobalTileID(gid))
		return nil
	})
}

func decodeTiles(encoding, compression, text string, xmlTiles []GlobalTileID) ([]GlobalTileID, error) {
	switch encoding {
	case "":
		return xmlTiles, nil
	case "csv":
		return decodeCSV(text)
	case "base64":
		return decodeBase64(text, compression)
	}
	return nil, fmt.Errorf("unknown encoding %q", encoding)
}

func decodeCSV(text string) ([]GlobalTileID, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	tiles := make([]GlobalTileID, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("csv tile %d: %w", i, err)
		}
		tiles[i] = GlobalTileID(v)
	}
	return tiles, nil
}

func decodeBase64(text, compression string) ([]GlobalTileID, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(text), ""))
	if err != nil {
		return nil, fmt.Errorf("base64: %w", err)
	}

	var r io.ReadCloser
	switch compression {
	case "":
	case "gzip":
		r, err = gzip.NewReader(bytes.NewReader(raw))
	case "zlib":
		r, err = zlib.NewReader(bytes.NewReader(raw))
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedCompression, compression)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", compression, err)
	}
	if r != nil {
		defer r.Close()
		if raw, err = io.ReadAll(r); err != nil {
			return nil, fmt.Errorf("%s: %w", compression, err)
		}
	}

	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("tile data is %d bytes, not a multiple of 4", len(raw))
	}
	tiles := make([]GlobalTileID, len(raw)/4)
	for i := range tiles {
		tiles[i] = GlobalTileID(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return tiles, nil
}
