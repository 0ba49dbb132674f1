package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/airstrip/assets"
	"github.com/milk9111/airstrip/console"
	"github.com/milk9111/airstrip/settings"
	"go.uber.org/zap"
)

func main() {
	mapName := flag.String("map", "", "map name in maps/ (basename, .json optional)")
	debug := flag.Bool("debug", false, "enable debug mode")
	fov := flag.Float64("fov", 0, "field of view in degrees, overrides the settings file")
	settingsPath := flag.String("settings", defaultSettingsPath(), "settings file (.yaml or .toml)")
	assetsDir := flag.String("assets-dir", "", "load assets from a directory instead of the binary")
	assetsZip := flag.String("assets-zip", "", "load assets from a zip archive")
	watch := flag.Bool("watch", false, "reload maps edited under -assets-dir")
	stdinConsole := flag.Bool("console", false, "read console commands from stdin")
	consoleAddr := flag.String("console-addr", "", "serve the websocket console at this address")
	statsAddr := flag.String("stats", "", "serve runtime charts at this address")
	sentryDSN := flag.String("sentry-dsn", os.Getenv("SENTRY_DSN"), "report panics to sentry")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	log := newLogger(*debug)
	defer func() { _ = log.Sync() }()

	var hub *sentry.Hub
	if *sentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: *sentryDSN, Release: "airstrip"}); err != nil {
			log.Warn("sentry disabled", zap.Error(err))
		} else {
			hub = sentry.CurrentHub()
			defer sentry.Flush(2 * time.Second)
		}
	}

	cfg, err := settings.Load(*settingsPath)
	if err != nil {
		log.Warn("settings unreadable, using defaults", zap.Error(err))
		cfg = settings.Default()
	}
	if name := settings.NormalizeMapName(*mapName); name != "" {
		cfg.MapName = name
	}
	if *debug {
		cfg.Debug = true
	}
	if *fov > 0 {
		cfg.SetFov(*fov)
	}

	var src assets.Source = assets.Embedded()
	var zipSrc *assets.ZipSource
	switch {
	case *assetsZip != "":
		zipSrc, err = assets.OpenZip(*assetsZip)
		if err != nil {
			log.Fatal("open asset archive", zap.String("path", *assetsZip), zap.Error(err))
		}
		src = zipSrc
	case *assetsDir != "":
		src = assets.Dir(*assetsDir)
	}
	loader := assets.NewLoader(src, log)

	game := NewGame(gameOptions{
		cfg:       cfg,
		loader:    loader,
		statsAddr: *statsAddr,
		hub:       hub,
		log:       log,
	})
	game.addCloser(loader)
	if zipSrc != nil {
		game.addCloser(zipSrc)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *stdinConsole {
		go func() {
			if err := game.console.ServeLines(ctx, os.Stdin, os.Stdout); err != nil {
				log.Warn("stdin console", zap.Error(err))
			}
		}()
	}
	if *consoleAddr != "" {
		srv := console.NewServer(game.console, log)
		go func() {
			if err := srv.ListenAndServe(ctx, *consoleAddr); err != nil {
				log.Warn("websocket console", zap.Error(err))
			}
		}()
	}
	if *watch {
		if *assetsDir == "" {
			log.Warn("-watch needs -assets-dir")
		} else {
			w, err := console.WatchMaps(filepath.Join(*assetsDir, "maps"), game.console, loader.Bundle,
				func() string { return game.ctrl.Level().Map }, log)
			if err != nil {
				log.Warn("map watcher disabled", zap.Error(err))
			} else {
				game.addCloser(w)
			}
		}
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("airstrip")

	runErr := ebiten.RunGame(game)
	cancel()
	if err := game.Close(); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	if runErr != nil {
		log.Fatal("run", zap.Error(runErr))
	}
}

func newLogger(debug bool) *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	if debug {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		log = zap.NewNop()
	}
	return log.With(zap.String("session", uuid.NewString()))
}

func defaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "airstrip", "settings.yaml")
}
