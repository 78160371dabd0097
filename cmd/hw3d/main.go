// Command hw3d is the interactive prism demo.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/chazu/hw3d/pkg/config"
	"github.com/chazu/hw3d/pkg/demo"
	"github.com/chazu/hw3d/pkg/engine"
	"github.com/chazu/hw3d/pkg/gfxdebug"
	"github.com/chazu/hw3d/pkg/kernel/facet"
	"github.com/chazu/hw3d/pkg/render"
	"github.com/chazu/hw3d/pkg/texprep"
	"github.com/chazu/hw3d/pkg/window"
	"github.com/hajimehoshi/ebiten/v2"
)

// options are the command line settings.
type options struct {
	configPath string
	scenePath  string
	debug      bool
	twerkObj   string
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var o options
	fs.StringVar(&o.configPath, "config", "hw3d.yml", "configuration file")
	fs.StringVar(&o.scenePath, "scene", "", "scene file to show instead of the configured one")
	fs.BoolVar(&o.debug, "debug", false, "enable debug logging and the graphics debug layer")
	fs.StringVar(&o.twerkObj, "twerk-objnorm", "", "flip the y axis of every normal map used by this OBJ model and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return o, nil
}

// runTool handles the modes that exit without opening a window. It reports
// whether one ran.
func runTool(o options, progress io.Writer) (bool, error) {
	if o.twerkObj == "" {
		return false, nil
	}
	done, err := texprep.FlipYAllNormalMapsInObj(o.twerkObj, progress)
	if err != nil {
		return true, fmt.Errorf("twerk-objnorm: %w", err)
	}
	slog.Info("normal maps flipped", "obj", o.twerkObj, "count", len(done))
	return true, nil
}

func run(args []string) error {
	o, err := parseFlags(flag.NewFlagSet("hw3d", flag.ContinueOnError), args)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if o.debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if ran, err := runTool(o, os.Stderr); ran {
		return err
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.scenePath != "" {
		cfg.Scene = o.scenePath
	}
	if o.debug {
		cfg.Debug.Enable = true
	}

	k := facet.New()
	var content *demo.Content
	if cfg.Scene != "" {
		content, err = demo.LoadContent(engine.NewEngine(), k, cfg.Scene)
	} else {
		content, err = demo.DefaultContent(k, cfg.Mesh.LongDiv)
	}
	if err != nil {
		return err
	}

	var native *gfxdebug.InfoManager
	if cfg.Debug.Enable {
		q, closer, err := gfxdebug.Open(cfg.Debug.Library)
		if err != nil {
			slog.Warn("native debug layer unavailable", "error", err)
		} else {
			defer closer.Close()
			native = gfxdebug.NewInfoManager(q)
		}
	}

	g := &game{native: native}
	wnd := window.New(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, g)
	gfx := render.NewGraphics(cfg.Window.Width, cfg.Window.Height, gfxdebug.NewMemQueue(0))
	app, err := demo.New(cfg, wnd, gfx, content)
	if err != nil {
		return err
	}
	g.wnd, g.gfx, g.app = wnd, gfx, app

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "hw3d: %v\n", err)
		os.Exit(1)
	}
}
