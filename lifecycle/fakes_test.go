package lifecycle

import (
	"fmt"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/airstrip/assets"
	"github.com/milk9111/airstrip/levels"
	"github.com/milk9111/airstrip/settings"
)

// calls is a shared, ordered record of collaborator calls.
type calls struct {
	log []string
}

func (c *calls) add(format string, args ...any) {
	c.log = append(c.log, fmt.Sprintf(format, args...))
}

func (c *calls) reset() {
	c.log = nil
}

func (c *calls) count(entry string) int {
	n := 0
	for _, e := range c.log {
		if e == entry {
			n++
		}
	}
	return n
}

func (c *calls) index(entry string) int {
	for i, e := range c.log {
		if e == entry {
			return i
		}
	}
	return -1
}

const testMap = `{
	"width": 3, "height": 3,
	"tiles": [1,1,1, 1,0,1, 1,1,1],
	"spawn": {"x": 1.5, "y": 1.5}
}`

func testBundle() *assets.Bundle {
	return &assets.Bundle{
		Maps: map[string][]byte{
			settings.DefaultMap: []byte(testMap),
			"hangar":            []byte(testMap),
			"broken":            []byte(`{"width": 0}`),
		},
		Sounds: map[string]*assets.Sound{"shoot": {Name: "shoot"}},
		Tracks: map[string]*assets.Sound{DefaultTrack: {Name: DefaultTrack}},
	}
}

type fakeAssets struct {
	calls   *calls
	loaded  bool
	bundle  *assets.Bundle
	events  chan assets.Event
	started []uint64
}

func (f *fakeAssets) IsLoaded() bool { return f.loaded }

func (f *fakeAssets) StartLoad(gen uint64) {
	f.calls.add("assets.StartLoad")
	f.started = append(f.started, gen)
}

func (f *fakeAssets) Events() <-chan assets.Event { return f.events }

func (f *fakeAssets) Bundle() *assets.Bundle {
	if !f.loaded {
		return nil
	}
	return f.bundle
}

// finish completes the most recent load.
func (f *fakeAssets) finish() {
	gen := f.started[len(f.started)-1]
	f.loaded = true
	f.events <- assets.Event{Gen: gen, Progress: assets.Progress{Loaded: 1, Total: 2}}
	f.events <- assets.Event{Gen: gen, Progress: assets.Progress{Loaded: 2, Total: 2}, Done: true, Bundle: f.bundle}
}

type fakeWorld struct {
	calls       *calls
	id          int
	inMenu      bool
	updates     int
	captureLost bool
	width       int
	height      int
	fov         int
	disposed    int
}

func (w *fakeWorld) Update() { w.updates++ }

func (w *fakeWorld) EnterMenu() {
	w.calls.add("world.EnterMenu")
	w.inMenu = true
}

func (w *fakeWorld) LeaveMenu() {
	w.calls.add("world.LeaveMenu")
	w.inMenu = false
}

func (w *fakeWorld) CaptureLost() bool {
	lost := w.captureLost
	w.captureLost = false
	return lost
}

func (w *fakeWorld) OnResize(width, height int) {
	w.width, w.height = width, height
}

func (w *fakeWorld) UpdateFov(fov int) { w.fov = fov }

func (w *fakeWorld) Dispose() error {
	w.calls.add("world.Dispose")
	w.disposed++
	return nil
}

type fakeRenderer struct {
	calls  *calls
	scene  *Scene
	world  World
	paused bool
	fov    int
	width  int
	height int
	draws  int
}

func (r *fakeRenderer) Init()                 { r.calls.add("renderer.Init") }
func (r *fakeRenderer) SetScene(scene *Scene) { r.scene = scene }
func (r *fakeRenderer) SetWorld(w World)      { r.world = w }
func (r *fakeRenderer) SetFov(fov int)        { r.fov = fov }
func (r *fakeRenderer) SetPausedMode(p bool)  { r.paused = p }
func (r *fakeRenderer) Draw(*ebiten.Image)    { r.draws++ }

func (r *fakeRenderer) OnResize(width, height int) {
	r.width, r.height = width, height
}

func (r *fakeRenderer) Reset() {
	r.calls.add("renderer.Reset")
	r.world = nil
}

type fakeOverlay struct {
	calls      *calls
	visible    bool
	menuActive bool
	info       LevelInfo
	updates    int
	draws      int
	width      int
}

func (o *fakeOverlay) Init()                 {}
func (o *fakeOverlay) Reset()                { o.calls.add("ui.Reset") }
func (o *fakeOverlay) Bind(info LevelInfo)   { o.info = info }
func (o *fakeOverlay) Show()                 { o.visible = true }
func (o *fakeOverlay) Hide()                 { o.visible = false }
func (o *fakeOverlay) Update()               { o.updates++ }
func (o *fakeOverlay) Draw(*ebiten.Image)    { o.draws++ }
func (o *fakeOverlay) OnResize(width, _ int) { o.width = width }
func (o *fakeOverlay) SetMenuActive(a bool)  { o.menuActive = a }
func (o *fakeOverlay) MenuActive() bool      { return o.menuActive }

type fakeLoading struct {
	visible  bool
	progress []assets.Progress
	draws    int
}

func (l *fakeLoading) Init()                            {}
func (l *fakeLoading) Reset()                           { l.progress = nil }
func (l *fakeLoading) Show()                            { l.visible = true }
func (l *fakeLoading) Hide()                            { l.visible = false }
func (l *fakeLoading) UpdateProgress(p assets.Progress) { l.progress = append(l.progress, p) }
func (l *fakeLoading) Draw(*ebiten.Image)               { l.draws++ }
func (l *fakeLoading) OnResize(int, int)                {}

type fakeAudio struct {
	sounds  map[string]*assets.Sound
	tracks  map[string]*assets.Sound
	playing []string
}

func (a *fakeAudio) Init()                                 {}
func (a *fakeAudio) InitSounds(s map[string]*assets.Sound) { a.sounds = s }
func (a *fakeAudio) InitTracks(t map[string]*assets.Sound) { a.tracks = t }
func (a *fakeAudio) PlayTrack(name string)                 { a.playing = append(a.playing, name) }

// fakeInput reports an edge on the frames a key becomes pressed.
type fakeInput struct {
	down map[ebiten.Key]bool
	prev map[ebiten.Key]bool
	cur  map[ebiten.Key]bool
}

func newFakeInput() *fakeInput {
	return &fakeInput{down: map[ebiten.Key]bool{}, prev: map[ebiten.Key]bool{}, cur: map[ebiten.Key]bool{}}
}

func (i *fakeInput) PollKeys() {
	i.prev, i.cur = i.cur, map[ebiten.Key]bool{}
	for k, v := range i.down {
		i.cur[k] = v
	}
}

func (i *fakeInput) IsKeyDownEdge(k ebiten.Key) bool {
	return i.cur[k] && !i.prev[k]
}

type fakeTweens struct {
	calls *calls
	ticks int
}

func (t *fakeTweens) TickAll()   { t.ticks++ }
func (t *fakeTweens) CancelAll() { t.calls.add("tweens.CancelAll") }

type fakeDebug struct {
	visible bool
	stats   DebugStats
	draws   int
}

func (d *fakeDebug) Init()               {}
func (d *fakeDebug) Update(s DebugStats) { d.stats = s }
func (d *fakeDebug) SetVisible(v bool)   { d.visible = v }
func (d *fakeDebug) Visible() bool       { return d.visible }
func (d *fakeDebug) Draw(*ebiten.Image)  { d.draws++ }

type fakeRegistry struct {
	calls   *calls
	current Commands
	sets    []Commands
}

func (r *fakeRegistry) Register(cmds Commands) {
	r.calls.add("commands.Register")
	if r.current != nil {
		panic("fake registry: double register")
	}
	r.current = cmds
	r.sets = append(r.sets, cmds)
}

func (r *fakeRegistry) Unregister() {
	r.calls.add("commands.Unregister")
	r.current = nil
}

type harness struct {
	t        *testing.T
	calls    *calls
	cfg      *settings.Config
	assets   *fakeAssets
	renderer *fakeRenderer
	ui       *fakeOverlay
	loading  *fakeLoading
	audio    *fakeAudio
	input    *fakeInput
	tweens   *fakeTweens
	debug    *fakeDebug
	registry *fakeRegistry
	worlds   []*fakeWorld
	built    []string
	c        *Controller
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cl := &calls{}
	h := &harness{
		t:        t,
		calls:    cl,
		cfg:      settings.Default(),
		assets:   &fakeAssets{calls: cl, bundle: testBundle(), events: make(chan assets.Event, 8)},
		renderer: &fakeRenderer{calls: cl},
		ui:       &fakeOverlay{calls: cl},
		loading:  &fakeLoading{},
		audio:    &fakeAudio{},
		input:    newFakeInput(),
		tweens:   &fakeTweens{calls: cl},
		debug:    &fakeDebug{},
		registry: &fakeRegistry{calls: cl},
	}
	h.cfg.Debug = true
	build := func(m *levels.Map, _ *assets.Bundle) (World, int, error) {
		w := &fakeWorld{calls: cl, id: len(h.worlds) + 1}
		h.worlds = append(h.worlds, w)
		h.built = append(h.built, m.Name)
		return w, 42, nil
	}
	h.c = New(h.cfg, Services{
		Assets:   h.assets,
		Build:    build,
		Renderer: h.renderer,
		UI:       h.ui,
		Loading:  h.loading,
		Sounds:   h.audio,
		Music:    h.audio,
		Input:    h.input,
		Tweens:   h.tweens,
		Debug:    h.debug,
		Commands: h.registry,
	}, nil)
	clock := time.Unix(0, 0)
	h.c.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	h.c.Init()
	return h
}

// frame runs one update and one draw.
func (h *harness) frame() {
	h.t.Helper()
	if err := h.c.Update(); err != nil {
		h.t.Fatalf("Update: %v", err)
	}
	h.c.Draw(nil)
}

// frames runs n frames and returns the phase after each update.
func (h *harness) frames(n int) []Phase {
	h.t.Helper()
	var seen []Phase
	for i := 0; i < n; i++ {
		h.frame()
		seen = append(seen, h.c.Phase())
	}
	return seen
}

// runUntil steps frames until the controller reaches p.
func (h *harness) runUntil(p Phase) {
	h.t.Helper()
	for i := 0; i < 20; i++ {
		if h.c.Phase() == p {
			return
		}
		h.frame()
	}
	h.t.Fatalf("phase %v not reached, stuck in %v", p, h.c.Phase())
}

// boot runs a fresh controller through a full load into Menu, which is
// where the first run lands.
func (h *harness) boot() {
	h.t.Helper()
	h.runUntil(Loading)
	h.assets.finish()
	h.runUntil(Menu)
}

// tapKey presses key for one frame and releases it on the next.
func (h *harness) tapKey(k ebiten.Key) {
	h.t.Helper()
	h.input.down[k] = true
	h.frame()
	h.input.down[k] = false
}

func (h *harness) world() *fakeWorld {
	h.t.Helper()
	if len(h.worlds) == 0 {
		h.t.Fatalf("no world built")
	}
	return h.worlds[len(h.worlds)-1]
}
