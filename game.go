package main

import (
	"io"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/airstrip/assets"
	"github.com/milk9111/airstrip/console"
	"github.com/milk9111/airstrip/debugui"
	"github.com/milk9111/airstrip/input"
	"github.com/milk9111/airstrip/levels"
	"github.com/milk9111/airstrip/lifecycle"
	"github.com/milk9111/airstrip/render"
	"github.com/milk9111/airstrip/settings"
	"github.com/milk9111/airstrip/sound"
	"github.com/milk9111/airstrip/tween"
	"github.com/milk9111/airstrip/ui"
	"github.com/milk9111/airstrip/world"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type Game struct {
	ctrl    *lifecycle.Controller
	music   *sound.Music
	console *console.Registry
	hub     *sentry.Hub
	log     *zap.Logger

	width, height int
	closers       []io.Closer
}

type gameOptions struct {
	cfg       *settings.Config
	loader    *assets.Loader
	statsAddr string
	hub       *sentry.Hub
	log       *zap.Logger
}

func NewGame(o gameOptions) *Game {
	log := o.log
	cfg := o.cfg

	poller := input.NewPoller()
	effects := sound.NewEffects(log)
	music := sound.NewMusic(log)
	ticker := tween.NewTicker()
	overlay := ui.NewOverlay(ticker)
	registry := console.NewRegistry(log)
	debug := debugui.New(o.statsAddr, log)

	builder := &world.Builder{
		Keys:    poller,
		Focused: ebiten.IsFocused,
		Capture: captureCursor,
		Sounds:  effects,
		Fov:     func() int { return cfg.Fov },
		Log:     log,
	}

	ctrl := lifecycle.New(cfg, lifecycle.Services{
		Assets: o.loader,
		Build: func(m *levels.Map, b *assets.Bundle) (lifecycle.World, int, error) {
			w, err := builder.Build(m, b)
			if err != nil {
				return nil, 0, err
			}
			return w, w.TriangleCount(), nil
		},
		Renderer: render.New(cfg.Fov, baseWidth, baseHeight, log),
		UI:       overlay,
		Loading:  ui.NewLoading(),
		Sounds:   effects,
		Music:    music,
		Input:    poller,
		Tweens:   ticker,
		Debug:    debug,
		Commands: registry,
	}, log)

	overlay.OnResume = ctrl.CloseMenu
	overlay.OnNewGame = func() {
		cmds := ctrl.Commands()
		if cmds == nil {
			return
		}
		if err := cmds.NewGame(); err != nil {
			log.Warn("new game", zap.Error(err))
		}
	}

	ctrl.Init()

	return &Game{
		ctrl:    ctrl,
		music:   music,
		console: registry,
		hub:     o.hub,
		log:     log,
		closers: []io.Closer{debug, registry},
	}
}

func captureCursor(captured bool) {
	if captured {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
		return
	}
	ebiten.SetCursorMode(ebiten.CursorModeVisible)
}

func (g *Game) Update() error {
	defer g.recoverFrame()

	g.console.Pump()
	if err := g.ctrl.Update(); err != nil {
		return err
	}
	g.music.Update()
	return nil
}

// recoverFrame reports a panicking frame before letting it unwind.
func (g *Game) recoverFrame() {
	r := recover()
	if r == nil {
		return
	}
	g.log.Error("frame panicked", zap.Any("panic", r), zap.Stringer("phase", g.ctrl.Phase()))
	if g.hub != nil {
		g.hub.Recover(r)
		g.hub.Flush(2 * time.Second)
	}
	panic(r)
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.ctrl.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.ctrl.OnResize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Close disposes the controller and releases every attached closer.
func (g *Game) Close() error {
	g.ctrl.Dispose()
	var err error
	for i := len(g.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, g.closers[i].Close())
	}
	return err
}

func (g *Game) addCloser(c io.Closer) {
	g.closers = append(g.closers, c)
}
