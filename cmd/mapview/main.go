// Command mapview opens a Tiled map, or a compiled one, and lets you scroll
// around it with the chunk bodies streamed in as the camera moves.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/automoto/tilechunk/config"
	"github.com/automoto/tilechunk/fonts"
	"github.com/automoto/tilechunk/mapcache"
	"github.com/automoto/tilechunk/tiled/tilemap"
)

func main() {
	configFile := flag.String("config", "", "JSON config overriding the defaults")
	cacheName := flag.String("cache", "", "load the map from the user cache, compiling the .tmx argument on a miss")
	physicsKind := flag.String("physics", "b2", "world the chunk bodies go into: b2, resolv or none")
	debug := flag.Bool("debug", false, "start with collider outlines on")
	fontFile := flag.String("font", "", "TTF or OTF file for the HUD (default: Go Regular)")
	flag.Parse()

	if *configFile != "" {
		if err := config.Load(os.DirFS(filepath.Dir(*configFile)), filepath.Base(*configFile)); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	config.Render.DebugColliders = config.Render.DebugColliders || *debug
	if err := loadFonts(*fontFile); err != nil {
		log.Fatalf("Failed to load fonts: %v", err)
	}

	name, m, err := openMap(*cacheName, flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to open map: %v", err)
	}

	scene, err := NewViewerScene(name, m, *physicsKind)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(config.Render.Width*2, config.Render.Height*2)
	ebiten.SetWindowTitle("mapview: " + name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(&Game{scene: scene}); err != nil {
		log.Fatal(err)
	}
}

// openMap loads path, or the cache entry name when one is given.
func openMap(name, path string) (string, *tilemap.Map, error) {
	if name == "" {
		if path == "" {
			return "", nil, fmt.Errorf("usage: mapview [flags] <map.tmx|map.json|map.bin>")
		}
		m, warnings, err := tilemap.OpenFile(path)
		logWarnings(warnings)
		return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), m, err
	}

	store, err := mapcache.Open()
	if err != nil {
		return "", nil, err
	}
	if path == "" {
		m, ok, err := store.Load(name)
		if err == nil && !ok {
			err = fmt.Errorf("no cached map %q", name)
		}
		return name, m, err
	}
	m, warnings, err := store.LoadOrCompile(name, path)
	logWarnings(warnings)
	return name, m, err
}

func loadFonts(path string) error {
	if err := fonts.LoadDefaults(); err != nil {
		return err
	}
	if path == "" {
		return nil
	}
	ttf, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return fonts.LoadFont(fonts.HUD, ttf)
}

func logWarnings(warnings []string) {
	for _, w := range warnings {
		log.Printf("warning: %s", w)
	}
}

type Game struct {
	scene *ViewerScene
}

func (g *Game) Update() error {
	g.scene.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *Game) Layout(width, height int) (int, int) {
	return config.Render.Width, config.Render.Height
}
