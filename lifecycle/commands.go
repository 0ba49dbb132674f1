package lifecycle

import (
	"errors"
	"sort"

	"github.com/milk9111/airstrip/settings"
	"go.uber.org/zap"
)

var (
	// ErrNotInteractive is returned by reload commands outside Play and Menu.
	ErrNotInteractive = errors.New("lifecycle: no interactive world")
	// ErrCommandsRevoked is returned by a command set from a finished cycle.
	ErrCommandsRevoked = errors.New("lifecycle: command set revoked")
	ErrUnknownMap      = errors.New("lifecycle: unknown map")
)

// Commands is the runtime command surface bound to one load cycle.
type Commands interface {
	NewGame() error
	LoadMap(name string) error
	SetFov(v float64) (int, error)
	ToggleDebug() (bool, error)
	Maps() []string
}

type commandSet struct {
	c       *Controller
	revoked bool
}

func (c *Controller) registerCommands() {
	if c.commands != nil {
		panic("lifecycle: command set already registered")
	}
	c.commands = &commandSet{c: c}
	c.svc.Commands.Register(c.commands)
}

func (s *commandSet) revoke() {
	s.revoked = true
}

// forceCloseMenu leaves the menu before a command changes state.
func (s *commandSet) forceCloseMenu() {
	c := s.c
	if c.world != nil && c.svc.UI.MenuActive() {
		c.closeMenu()
	}
}

// NewGame reloads the default map.
func (s *commandSet) NewGame() error {
	return s.LoadMap(settings.DefaultMap)
}

// LoadMap schedules a full reload with the named map.
func (s *commandSet) LoadMap(name string) error {
	if s.revoked {
		return ErrCommandsRevoked
	}
	c := s.c
	if !c.phase.Interactive() {
		return ErrNotInteractive
	}
	if b := c.svc.Assets.Bundle(); b != nil {
		if _, ok := b.Maps[name]; !ok {
			return ErrUnknownMap
		}
	}
	s.forceCloseMenu()
	c.cfg.MapName = name
	c.request(PreLoad)
	c.log.Info("reload requested", zap.String("map", name))
	return nil
}

// SetFov clamps v, persists it and applies it to the projection. The world's
// camera follows now in Play, otherwise on the next return to Play.
func (s *commandSet) SetFov(v float64) (int, error) {
	if s.revoked {
		return 0, ErrCommandsRevoked
	}
	c := s.c
	s.forceCloseMenu()
	fov := c.cfg.SetFov(v)
	c.saveSettings()

	c.svc.Renderer.SetFov(fov)
	if c.phase == Play && c.world != nil {
		c.world.UpdateFov(fov)
	} else {
		c.fovDeferred = true
	}
	return fov, nil
}

// ToggleDebug flips debug mode and the overlay with it.
func (s *commandSet) ToggleDebug() (bool, error) {
	if s.revoked {
		return false, ErrCommandsRevoked
	}
	c := s.c
	s.forceCloseMenu()
	c.cfg.Debug = !c.cfg.Debug
	c.svc.Debug.SetVisible(c.cfg.Debug)
	c.saveSettings()
	return c.cfg.Debug, nil
}

// Maps lists the loaded map names.
func (s *commandSet) Maps() []string {
	b := s.c.svc.Assets.Bundle()
	if s.revoked || b == nil {
		return nil
	}
	names := make([]string, 0, len(b.Maps))
	for name := range b.Maps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Controller) saveSettings() {
	if err := c.cfg.Save(); err != nil {
		c.log.Warn("save settings", zap.Error(err))
	}
}
