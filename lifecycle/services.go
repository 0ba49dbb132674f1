package lifecycle

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/airstrip/assets"
	"github.com/milk9111/airstrip/levels"
)

// AssetSource loads every asset in bulk. Loads run asynchronously and report
// through Events; the controller drains the channel once per frame.
type AssetSource interface {
	IsLoaded() bool
	StartLoad(gen uint64)
	Events() <-chan assets.Event
	Bundle() *assets.Bundle
}

// World is the live interactive scene. It exists only in Play and Menu.
type World interface {
	Update()
	EnterMenu()
	LeaveMenu()
	CaptureLost() bool
	OnResize(width, height int)
	UpdateFov(fov int)
	Dispose() error
}

// BuildFunc constructs a World from a parsed map and the loaded assets and
// returns it with its triangle count.
type BuildFunc func(m *levels.Map, bundle *assets.Bundle) (World, int, error)

type Renderer interface {
	Init()
	SetScene(scene *Scene)
	SetWorld(w World)
	SetFov(fov int)
	SetPausedMode(paused bool)
	Draw(screen *ebiten.Image)
	OnResize(width, height int)
	Reset()
}

// LevelInfo describes the world just built, for display.
type LevelInfo struct {
	Map       string
	Triangles int
}

type Overlay interface {
	Init()
	Reset()
	Bind(info LevelInfo)
	Show()
	Hide()
	Update()
	Draw(screen *ebiten.Image)
	OnResize(width, height int)
	SetMenuActive(active bool)
	MenuActive() bool
}

type LoadingUI interface {
	Init()
	Reset()
	Show()
	Hide()
	UpdateProgress(p assets.Progress)
	Draw(screen *ebiten.Image)
	OnResize(width, height int)
}

type Effects interface {
	Init()
	InitSounds(sounds map[string]*assets.Sound)
}

type Music interface {
	Init()
	InitTracks(tracks map[string]*assets.Sound)
	PlayTrack(name string)
}

type Input interface {
	PollKeys()
	IsKeyDownEdge(key ebiten.Key) bool
}

type Animator interface {
	TickAll()
	CancelAll()
}

// DebugStats is handed to the debug overlay every frame.
type DebugStats struct {
	Phase     Phase
	Frame     uint64
	Map       string
	Triangles int
	Fov       int
}

type DebugOverlay interface {
	Init()
	Update(stats DebugStats)
	SetVisible(visible bool)
	Visible() bool
	Draw(screen *ebiten.Image)
}

// CommandRegistry is the out-of-band command channel. At most one command
// set is registered at a time.
type CommandRegistry interface {
	Register(cmds Commands)
	Unregister()
}

// Services bundles every collaborator the controller sequences.
type Services struct {
	Assets   AssetSource
	Build    BuildFunc
	Renderer Renderer
	UI       Overlay
	Loading  LoadingUI
	Sounds   Effects
	Music    Music
	Input    Input
	Tweens   Animator
	Debug    DebugOverlay
	Commands CommandRegistry
}

func (s Services) validate() {
	missing := ""
	switch {
	case s.Assets == nil:
		missing = "Assets"
	case s.Build == nil:
		missing = "Build"
	case s.Renderer == nil:
		missing = "Renderer"
	case s.UI == nil:
		missing = "UI"
	case s.Loading == nil:
		missing = "Loading"
	case s.Sounds == nil:
		missing = "Sounds"
	case s.Music == nil:
		missing = "Music"
	case s.Input == nil:
		missing = "Input"
	case s.Tweens == nil:
		missing = "Tweens"
	case s.Debug == nil:
		missing = "Debug"
	case s.Commands == nil:
		missing = "Commands"
	}
	if missing != "" {
		panic("lifecycle: missing service " + missing)
	}
}

const (
	fogNear = 500
	fogFar  = 900
)

// Fog fades geometry to Color between Near and Far world units.
type Fog struct {
	Color color.RGBA
	Near  float64
	Far   float64
}

// Scene is the container rebuilt on every PreLoad.
type Scene struct {
	Fog   Fog
	Clear color.RGBA
}

// NewScene returns an empty scene with black distance fog.
func NewScene() *Scene {
	return &Scene{
		Fog:   Fog{Color: color.RGBA{A: 0xff}, Near: fogNear, Far: fogFar},
		Clear: color.RGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xff},
	}
}
