package lifecycle

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/airstrip/settings"
	"go.uber.org/zap"
)

// PauseKey toggles the menu during play.
const PauseKey = ebiten.KeyEscape

// DefaultTrack is started once a world is built.
const DefaultTrack = "simple_action_beat"

// Controller owns the phase machine. Update and Draw must be called from the
// frame goroutine; every collaborator is driven from there.
type Controller struct {
	cfg *settings.Config
	svc Services
	log *zap.Logger
	now func() time.Time

	phase      Phase
	pending    Phase
	hasPending bool
	consumed   bool
	frame      uint64

	world     World
	info      LevelInfo
	scene     *Scene
	commands  *commandSet
	loadGen   uint64
	loadStart time.Time

	menuOnPlay     bool
	width, height  int
	resizeDeferred bool
	fovDeferred    bool
}

// New returns a controller in PreLoad. Every service is required.
func New(cfg *settings.Config, svc Services, logger *zap.Logger) *Controller {
	svc.validate()
	if cfg == nil {
		cfg = settings.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		cfg:   cfg,
		svc:   svc,
		log:   logger.Named("lifecycle"),
		now:   time.Now,
		phase: PreLoad,
	}
}

// Init initializes every collaborator once, before the first Update.
func (c *Controller) Init() {
	c.svc.Debug.Init()
	c.svc.Debug.SetVisible(c.cfg.Debug)
	c.svc.Loading.Init()
	c.svc.UI.Init()
	c.svc.Sounds.Init()
	c.svc.Music.Init()
	c.svc.Renderer.Init()
}

func (c *Controller) Phase() Phase {
	return c.phase
}

// Pending returns the requested next phase, if any.
func (c *Controller) Pending() (Phase, bool) {
	return c.pending, c.hasPending
}

// FrameConsumed reports whether the current phase has run at least once.
func (c *Controller) FrameConsumed() bool {
	return c.consumed
}

// World returns the live world, or nil outside Play and Menu.
func (c *Controller) World() World {
	return c.world
}

// Level describes the live world. It is zero between load cycles.
func (c *Controller) Level() LevelInfo {
	return c.info
}

// Scene returns the scene built by the last PreLoad.
func (c *Controller) Scene() *Scene {
	return c.scene
}

// Commands returns the registered command set, or nil between load cycles.
func (c *Controller) Commands() Commands {
	if c.commands == nil {
		return nil
	}
	return c.commands
}

// Update advances one frame: it commits a phase requested on an earlier
// frame, drains loader events and runs the current phase.
func (c *Controller) Update() error {
	if c.phase == Disposed {
		return nil
	}
	c.frame++
	c.commit()
	c.drainLoadEvents()

	c.svc.Debug.Update(DebugStats{
		Phase:     c.phase,
		Frame:     c.frame,
		Map:       c.info.Map,
		Triangles: c.info.Triangles,
		Fov:       c.cfg.Fov,
	})

	switch c.phase {
	case PreLoad:
		if !c.consumed {
			c.consumed = true
			c.preLoad()
		}
	case Loading:
		c.consumed = true
	case PostLoad:
		if !c.consumed {
			c.consumed = true
			c.postLoad()
		}
	case Play:
		c.consumed = true
		c.play()
	case Menu:
		c.consumed = true
		c.menu()
	default:
		panic(fmt.Sprintf("lifecycle: update in unknown phase %v", c.phase))
	}
	return nil
}

// Draw renders the current phase.
func (c *Controller) Draw(screen *ebiten.Image) {
	switch c.phase {
	case PreLoad, Loading, PostLoad:
		c.svc.Loading.Draw(screen)
	case Play, Menu:
		c.svc.Renderer.Draw(screen)
		c.svc.UI.Draw(screen)
	default:
		return
	}
	if c.svc.Debug.Visible() {
		c.svc.Debug.Draw(screen)
	}
}

func (c *Controller) request(p Phase) {
	c.pending = p
	c.hasPending = true
}

func (c *Controller) commit() {
	if !c.hasPending || !c.consumed {
		return
	}
	to := c.pending
	c.hasPending = false
	if to == c.phase {
		return
	}
	from := c.phase
	if !CanTransition(from, to) {
		panic(fmt.Sprintf("lifecycle: illegal transition %v -> %v", from, to))
	}
	c.phase = to
	c.consumed = false
	c.log.Debug("phase", zap.Stringer("from", from), zap.Stringer("to", to))

	if to.Interactive() && !from.Interactive() {
		c.svc.Loading.Hide()
		c.svc.UI.Show()
	}
	if to == Play {
		c.applyDeferred()
	}
}

func (c *Controller) play() {
	c.svc.Input.PollKeys()
	if c.menuOnPlay {
		c.menuOnPlay = false
		c.openMenu()
		return
	}
	if c.svc.Input.IsKeyDownEdge(PauseKey) || c.world.CaptureLost() {
		c.openMenu()
		return
	}
	c.world.Update()
	c.svc.UI.Update()
	c.svc.Tweens.TickAll()
}

func (c *Controller) menu() {
	c.svc.Input.PollKeys()
	if c.svc.Input.IsKeyDownEdge(PauseKey) {
		c.closeMenu()
		return
	}
	c.svc.UI.Update()
}
