package main

import (
	"embed"
	"flag"
	"log/slog"
	"os"

	"github.com/chazu/topoview/pkg/topology"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	debug := flag.Bool("debug", false, "log topology construction at debug level")
	scale := flag.Float64("scale", 1, "render scale factor applied to camera targets")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	topology.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	app := NewApp()
	app.SetScale(*scale)
	if path := flag.Arg(0); path != "" {
		app.LoadFile(path)
	}

	err := wails.Run(&options.App{
		Title:  "topoview",
		Width:  1280,
		Height: 800,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup: app.startup,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		topology.Logger().Error("app: wails", "err", err)
		os.Exit(1)
	}
}
