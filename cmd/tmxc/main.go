// Command tmxc compiles Tiled maps, prints what a map turns into and checks
// the loader against go-tiled.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/automoto/tilechunk/config"
	"github.com/automoto/tilechunk/mapcache"
	"github.com/automoto/tilechunk/physics"
	"github.com/automoto/tilechunk/physics/b2"
	"github.com/automoto/tilechunk/tiled/crosscheck"
	"github.com/automoto/tilechunk/tiled/tilemap"
	"github.com/automoto/tilechunk/tiled/tileset"
)

const usage = `usage: tmxc [-config file] <command> [flags] <path>

commands:
  compile  compile a .tmx into a .json or .bin map
  inspect  print the layers, tilesets and fixtures of a map
  verify   compare a .tmx, or every .tmx in a directory, with go-tiled
`

func main() {
	log.SetFlags(0)
	configFile := flag.String("config", "", "JSON config overriding the defaults")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if *configFile != "" {
		if err := config.Load(os.DirFS(filepath.Dir(*configFile)), filepath.Base(*configFile)); err != nil {
			log.Fatalf("config: %v", err)
		}
	}
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	commands := map[string]func([]string) error{
		"compile": compile,
		"inspect": inspect,
		"verify":  verify,
	}
	run, ok := commands[flag.Arg(0)]
	if !ok {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(flag.Args()[1:]); err != nil {
		log.Fatalf("%s: %v", flag.Arg(0), err)
	}
}

// pathArg parses fs and returns its single positional argument.
func pathArg(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		return "", fmt.Errorf("expected one path, got %d", fs.NArg())
	}
	return fs.Arg(0), nil
}

func compile(args []string) error {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	out := fs.String("o", "", "output file, .json or .bin (default: input with .bin)")
	cache := fs.String("cache", "", "also store the map in the user cache under this name")
	path, err := pathArg(fs, args)
	if err != nil {
		return err
	}

	m, warnings, err := tilemap.LoadFile(path)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		log.Printf("warning: %s", w)
	}

	dst := *out
	if dst == "" {
		dst = strings.TrimSuffix(path, filepath.Ext(path)) + ".bin"
	}
	if err := m.SaveFile(dst); err != nil {
		return err
	}
	log.Printf("wrote %s", dst)

	if *cache != "" {
		store, err := mapcache.Open()
		if err != nil {
			return err
		}
		if err := store.Save(*cache, m); err != nil {
			return err
		}
		log.Printf("cached as %s", mapcache.Key(*cache))
	}
	return nil
}

func inspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	useB2 := fs.Bool("b2", false, "also build the map into a Box2D world")
	path, err := pathArg(fs, args)
	if err != nil {
		return err
	}

	m, warnings, err := tilemap.OpenFile(path)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		log.Printf("warning: %s", w)
	}

	fmt.Printf("%s: %dx%d tiles of %dx%d px", path, m.Width, m.Height, m.TileWidth, m.TileHeight)
	if m.Infinite {
		fmt.Print(", infinite")
	}
	fmt.Println()

	for _, id := range m.Tilesets.IDs() {
		ts := m.Tilesets.Get(id)
		rng, _ := m.Tilesets.Range(id)
		fmt.Printf("tileset %d %q: gids %v, %d tiles\n", id, ts.Name, rng, ts.TileCount())
	}

	world := physics.NewMemoryWorld()
	for _, l := range m.Layers {
		before := len(world.Fixtures())
		bodies := len(world.Bodies)
		for _, pos := range l.Data.Positions() {
			if !l.Collides() {
				break
			}
			origin := tilemap.LayerChunkOrigin(l, pos, config.Map.UnitsPerTile)
			if _, err := l.Data.Chunks[pos].EnsurePhysics(world, m.Tilesets, origin); err != nil {
				return fmt.Errorf("layer %q chunk %v: %w", l.Name, pos, err)
			}
		}
		fmt.Printf("layer %q [%v]: %d chunks, %d bodies, %d fixtures\n",
			l.Name, l.Flags, len(l.Data.Chunks), len(world.Bodies)-bodies, len(world.Fixtures())-before)
	}
	for _, img := range m.Images {
		fmt.Printf("image layer %q\n", img.Name)
	}

	sensors := 0
	flags := make(map[tileset.TileFlags]int)
	for _, def := range world.Fixtures() {
		if def.Sensor {
			sensors++
		}
		if f, ok := def.Data.(tileset.TileFlags); ok {
			flags[f]++
		}
	}
	fmt.Printf("fixtures: %d, sensors: %d\n", len(world.Fixtures()), sensors)
	for f, n := range flags {
		fmt.Printf("  %v: %d\n", f, n)
	}

	types := make(map[string]int)
	for _, mk := range m.Markers {
		types[mk.Type]++
	}
	fmt.Printf("markers: %d\n", len(m.Markers))
	for typ, n := range types {
		fmt.Printf("  %q: %d\n", typ, n)
	}

	if *useB2 {
		w := b2.NewWorld()
		if err := m.EnsurePhysics(w); err != nil {
			return err
		}
		fmt.Printf("box2d: %d bodies\n", w.BodyCount())
	}
	return nil
}

func verify(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	pngDir := fs.String("png", "", "also write a go-tiled rendering of each finite map into this directory")
	path, err := pathArg(fs, args)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	reports := map[string]*crosscheck.Report{}
	names := []string{path}
	if info.IsDir() {
		reports, names, err = crosscheck.CheckDir(path)
		if err != nil {
			return err
		}
	} else {
		r, err := crosscheck.Check(path)
		if err != nil {
			return err
		}
		reports[path] = r
	}

	failed := 0
	for _, name := range names {
		r := reports[name]
		if *pngDir != "" && r.Skipped == "" {
			if err := writePreview(r.Path, *pngDir); err != nil {
				return err
			}
		}
		switch {
		case r.Skipped != "":
			fmt.Printf("%s: skipped, %s\n", name, r.Skipped)
		case r.OK():
			fmt.Printf("%s: ok, %d layers, %d tiles\n", name, r.Layers, r.Tiles)
		default:
			failed++
			fmt.Printf("%s: FAILED\n", name)
			for _, mm := range r.Mismatches {
				fmt.Printf("  %v\n", mm)
			}
			for _, l := range r.Missing {
				fmt.Printf("  missing layer %q\n", l)
			}
			if r.ObjectsOurs != r.ObjectsTheirs {
				fmt.Printf("  objects: ours %d, go-tiled %d\n", r.ObjectsOurs, r.ObjectsTheirs)
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d maps disagree", failed, len(names))
	}
	return nil
}

func writePreview(tmxPath, dir string) error {
	out := filepath.Join(dir, strings.TrimSuffix(filepath.Base(tmxPath), filepath.Ext(tmxPath))+".png")
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := crosscheck.Preview(tmxPath, f); err != nil {
		f.Close()
		return err
	}
	log.Printf("wrote %s", out)
	return f.Close()
}
