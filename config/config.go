package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io/fs"

	"github.com/yohamta/donburi/ecs"
)

// MapConfig controls how maps are turned into world geometry.
type MapConfig struct {
	UnitsPerTile     float64 `json:"unitsPerTile"`     // world units covered by one map tile
	EllipseDivisions int     `json:"ellipseDivisions"` // segments in the loop approximating an ellipse
	SkipValidation   bool    `json:"skipValidation"`   // skip the post-load consistency pass
}

// PhysicsConfig contains physics collaborator settings
type PhysicsConfig struct {
	Density float64 `json:"density"` // base fixture density

	// Box2D
	Gravity            float64 `json:"gravity"`
	VelocityIterations int     `json:"velocityIterations"`
	PositionIterations int     `json:"positionIterations"`

	// resolv
	PixelsPerUnit  float64 `json:"pixelsPerUnit"`  // resolv space is in pixels
	ResolvCellSize int     `json:"resolvCellSize"` // broadphase cell edge in pixels
}

// RenderConfig contains map viewer settings
type RenderConfig struct {
	Width           int        `json:"width"`
	Height          int        `json:"height"`
	PixelsPerUnit   float64    `json:"pixelsPerUnit"`
	ScrollSpeed     float64    `json:"scrollSpeed"`  // pixels per tick
	StreamMargin    int        `json:"streamMargin"` // chunks kept live around the view
	BackgroundColor color.RGBA `json:"backgroundColor"`
	DebugColliders  bool       `json:"debugColliders"`
	ColliderColor   color.RGBA `json:"colliderColor"`
	SensorColor     color.RGBA `json:"sensorColor"`
}

// CacheConfig contains compiled map store settings
type CacheConfig struct {
	AppName string `json:"appName"`
}

// Global configuration instances
var Map MapConfig
var Physics PhysicsConfig
var Render RenderConfig
var Cache CacheConfig

// Default is the only ECS layer the map systems draw on.
const Default ecs.LayerID = 0

func init() {
	Defaults()
}

// Defaults resets every global to its built-in value.
func Defaults() {
	Map = MapConfig{
		UnitsPerTile:     1,
		EllipseDivisions: 36,
	}

	Physics = PhysicsConfig{
		Density: 1,

		Gravity:            -10,
		VelocityIterations: 8,
		PositionIterations: 3,

		PixelsPerUnit:  16,
		ResolvCellSize: 16,
	}

	Render = RenderConfig{
		Width:           640,
		Height:          360,
		PixelsPerUnit:   16,
		ScrollSpeed:     4,
		StreamMargin:    1,
		BackgroundColor: color.RGBA{R: 24, G: 24, B: 32, A: 255},
		ColliderColor:   color.RGBA{R: 0, G: 255, B: 60, A: 255},
		SensorColor:     color.RGBA{R: 100, G: 180, B: 255, A: 255},
	}

	Cache = CacheConfig{
		AppName: "tilechunk",
	}
}

type overrides struct {
	Map     *MapConfig     `json:"map"`
	Physics *PhysicsConfig `json:"physics"`
	Render  *RenderConfig  `json:"render"`
	Cache   *CacheConfig   `json:"cache"`
}

// Load overlays the JSON file name from fsys onto the current globals.
// Sections and fields missing from the file keep their values.
func Load(fsys fs.FS, name string) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	o := overrides{Map: &Map, Physics: &Physics, Render: &Render, Cache: &Cache}
	if err := json.Unmarshal(data, &o); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	if Map.UnitsPerTile <= 0 {
		return fmt.Errorf("%s: map.unitsPerTile must be positive", name)
	}
	if Map.EllipseDivisions < 3 {
		return fmt.Errorf("%s: map.ellipseDivisions must be at least 3", name)
	}
	return nil
}
