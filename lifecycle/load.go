package lifecycle

import (
	"fmt"

	"github.com/milk9111/airstrip/assets"
	"github.com/milk9111/airstrip/levels"
	"github.com/milk9111/airstrip/settings"
	"go.uber.org/zap"
)

// preLoad tears down the previous cycle and starts the next one.
func (c *Controller) preLoad() {
	c.dispose()
	c.phase = PreLoad

	c.registerCommands()
	c.svc.UI.Reset()
	c.svc.Loading.Reset()
	c.svc.Loading.Show()
	c.loadStart = c.now()

	c.scene = NewScene()
	c.svc.Renderer.SetScene(c.scene)

	if c.svc.Assets.IsLoaded() {
		c.request(PostLoad)
		return
	}
	c.loadGen++
	c.svc.Assets.StartLoad(c.loadGen)
	c.request(Loading)
}

// drainLoadEvents forwards progress to the loading UI and requests PostLoad
// on completion. Events from an earlier generation are dropped.
func (c *Controller) drainLoadEvents() {
	events := c.svc.Assets.Events()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.handleLoadEvent(ev)
		default:
			return
		}
	}
}

func (c *Controller) handleLoadEvent(ev assets.Event) {
	if ev.Gen != c.loadGen || c.phase != Loading {
		c.log.Debug("stale load event dropped", zap.Uint64("gen", ev.Gen), zap.Stringer("phase", c.phase))
		return
	}
	c.svc.Loading.UpdateProgress(ev.Progress)
	if !ev.Done {
		return
	}
	if ev.Err != nil {
		c.log.Error("assets loaded with errors", zap.Uint64("gen", ev.Gen), zap.Error(ev.Err))
	}
	c.request(PostLoad)
}

// postLoad builds the world from the loaded bundle and requests Play.
func (c *Controller) postLoad() {
	bundle := c.svc.Assets.Bundle()
	if bundle == nil {
		panic("lifecycle: post-load without a bundle")
	}

	m := c.selectMap(bundle)
	w, triangles, err := c.svc.Build(m, bundle)
	if err != nil {
		panic(fmt.Sprintf("lifecycle: build world %q: %v", m.Name, err))
	}
	c.world = w
	c.info = LevelInfo{Map: m.Name, Triangles: triangles}

	c.svc.Sounds.InitSounds(bundle.Sounds)
	c.svc.Music.InitTracks(bundle.Tracks)
	c.svc.Renderer.SetWorld(w)
	c.svc.UI.Bind(c.info)

	if c.cfg.Debug {
		c.log.Info("level loaded",
			zap.String("map", m.Name),
			zap.Duration("load_time", c.now().Sub(c.loadStart)),
			zap.Int("triangles", triangles),
		)
	}

	c.request(Play)
	c.svc.Music.PlayTrack(DefaultTrack)

	c.resizeDeferred = c.width > 0 && c.height > 0
	c.fovDeferred = false
	if c.cfg.FirstRun.Consume() {
		c.menuOnPlay = true
	} else {
		w.LeaveMenu()
	}
}

// selectMap parses the configured map, falling back to the default map.
func (c *Controller) selectMap(bundle *assets.Bundle) *levels.Map {
	name := c.cfg.MapName
	m, err := parseBundleMap(bundle, name)
	if err == nil {
		return m
	}
	if name == settings.DefaultMap {
		panic(fmt.Sprintf("lifecycle: default map: %v", err))
	}
	c.log.Error("map unavailable, loading default", zap.String("map", name), zap.Error(err))
	c.cfg.MapName = settings.DefaultMap
	m, err = parseBundleMap(bundle, settings.DefaultMap)
	if err != nil {
		panic(fmt.Sprintf("lifecycle: default map: %v", err))
	}
	return m
}

func parseBundleMap(bundle *assets.Bundle, name string) (*levels.Map, error) {
	data, ok := bundle.Maps[name]
	if !ok {
		return nil, fmt.Errorf("lifecycle: map %q: %w", name, ErrUnknownMap)
	}
	return levels.Parse(name, data)
}
