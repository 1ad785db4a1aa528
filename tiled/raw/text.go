package raw

import (
	"encoding/xml"
	"image/color"
)

type HAlign uint8

const (
	HAlignLeft HAlign = iota
	HAlignCenter
	HAlignRight
	HAlignJustify
)

type VAlign uint8

const (
	VAlignTop VAlign = iota
	VAlignCenter
	VAlignBottom
)

// Text is the <text> payload of a text object.
type Text struct {
	Content    string
	FontFamily string
	PixelSize  float64
	Wrap       bool
	Color      color.NRGBA
	Bold       bool
	Italic     bool
	Underline  bool
	Strikeout  bool
	Kerning    bool
	HAlign     HAlign
	VAlign     VAlign
}

func parseText(ctx *Context, el xml.StartElement) (*Text, error) {
	t := &Text{
		PixelSize: 16,
		Color:     color.NRGBA{A: 0xff},
		Kerning:   true,
	}
	var halign, valign string
	err := ctx.Parse(el, Schema{
		Attrs: []Attr{
			Opt("fontfamily", String(&t.FontFamily)),
			Opt("pixelsize", Float(&t.PixelSize)),
			Opt("wrap", Flag(&t.Wrap)),
			Opt("color", Into(&t.Color, ParseColor)),
			Opt("bold", Flag(&t.Bold)),
			Opt("italic", Flag(&t.Italic)),
			Opt("underline", Flag(&t.Underline)),
			Opt("strikeout", Flag(&t.Strikeout)),
			Opt("kerning", Flag(&t.Kerning)),
			Opt("halign", String(&halign)),
			Opt("valign", String(&valign)),
		},
		Text: &t.Content,
	})
	if err != nil {
		return nil, err
	}

	switch halign {
	case "center":
		t.HAlign = HAlignCenter
	case "right":
		t.HAlign = HAlignRight
	case "justify":
		t.HAlign = HAlignJustify
	}
	switch valign {
	case "center":
		t.VAlign = VAlignCenter
	case "bottom":
		t.VAlign = VAlignBottom
	}
	return t, nil
}
