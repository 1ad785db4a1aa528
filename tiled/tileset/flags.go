package tileset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/automoto/tilechunk/tiled/raw"
)

// ErrUnknownFlag is returned for a token in a "flags" property that names no
// known flag.
var ErrUnknownFlag = errors.New("unknown flag")

// TileFlags is a set of gameplay flags attached to a tile or a single
// collision object. It is parsed from a "flags" string property of the form
// "WALL|LADDER"; "NONE" and empty tokens add nothing.
type TileFlags uint32

const (
	FlagNull TileFlags = 1 << iota
	FlagWall
	FlagLadder
	FlagCliff
	FlagVoid
	FlagPath
	FlagLeft
	FlagRight
	FlagUp
	FlagDown

	FlagsNone TileFlags = 0
)

var flagNames = []struct {
	flag TileFlags
	name string
}{
	{FlagNull, "NULL"},
	{FlagWall, "WALL"},
	{FlagLadder, "LADDER"},
	{FlagCliff, "CLIFF"},
	{FlagVoid, "VOID"},
	{FlagPath, "PATH"},
	{FlagLeft, "LEFT"},
	{FlagRight, "RIGHT"},
	{FlagUp, "UP"},
	{FlagDown, "DOWN"},
}

// sensorFlags make a fixture overlap-only.
const sensorFlags = FlagLadder | FlagPath

func (f TileFlags) Has(o TileFlags) bool {
	return f&o == o
}

// Any reports whether f and o share at least one flag.
func (f TileFlags) Any(o TileFlags) bool {
	return f&o != 0
}

func (f TileFlags) Union(o TileFlags) TileFlags {
	return f | o
}

func (f TileFlags) Intersect(o TileFlags) TileFlags {
	return f & o
}

// IsSensor reports whether fixtures carrying f get no collision response.
func (f TileFlags) IsSensor() bool {
	return f.Any(sensorFlags)
}

func (f TileFlags) String() string {
	if f == FlagsNone {
		return "NONE"
	}
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
			f &^= fn.flag
		}
	}
	if f != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint32(f)))
	}
	return strings.Join(names, "|")
}

// ParseFlags reads a pipe-delimited flag list.
func ParseFlags(s string) (TileFlags, error) {
	flags := FlagsNone
	for _, tok := range strings.Split(s, "|") {
		tok = strings.TrimSpace(tok)
		if tok == "" || tok == "NONE" {
			continue
		}
		found := false
		for _, fn := range flagNames {
			if fn.name == tok {
				flags |= fn.flag
				found = true
				break
			}
		}
		if !found {
			return FlagsNone, fmt.Errorf("%w %q", ErrUnknownFlag, tok)
		}
	}
	return flags, nil
}

// FlagsFromProperties parses the "flags" property, if any.
func FlagsFromProperties(props raw.Properties) (TileFlags, error) {
	s, ok := props.String("flags")
	if !ok {
		return FlagsNone, nil
	}
	return ParseFlags(s)
}
