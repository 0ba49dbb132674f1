package world

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
)

const (
	playerRadius    = 16.0
	playerSpeed     = 240.0
	playerTurnSpeed = 0.045
	stepInterval    = 22
)

// KeyState is the per-frame key view the player reads.
type KeyState interface {
	IsKeyDown(key ebiten.Key) bool
}

// Controls gates the player's own input handling. Attached controls own
// the pointer capture; enabled controls move the player.
type Controls struct {
	enabled  bool
	attached bool

	capture     func(captured bool)
	focused     func() bool
	captureLost bool
}

func (c *Controls) Enable()  { c.enabled = true }
func (c *Controls) Disable() { c.enabled = false }

func (c *Controls) Enabled() bool  { return c.enabled }
func (c *Controls) Attached() bool { return c.attached }

// AttachEvents takes pointer capture.
func (c *Controls) AttachEvents() {
	c.attached = true
	c.captureLost = false
	if c.capture != nil {
		c.capture(true)
	}
}

// DetachEvents releases pointer capture.
func (c *Controls) DetachEvents() {
	c.attached = false
	if c.capture != nil {
		c.capture(false)
	}
}

// CaptureLost reports, once, that an attached capture was taken away by the
// window losing focus.
func (c *Controls) CaptureLost() bool {
	if !c.captureLost {
		return false
	}
	c.captureLost = false
	return true
}

func (c *Controls) poll() {
	if !c.attached || c.focused == nil || c.focused() {
		return
	}
	c.attached = false
	c.captureLost = true
	if c.capture != nil {
		c.capture(false)
	}
}

// Player is the local player body and its view.
type Player struct {
	InMenu   bool
	Controls *Controls
	View     *View

	body  *cp.Body
	shape *cp.Shape
	keys  KeyState
	step  func()

	stepTimer int
}

// Position returns the body position in world units.
func (p *Player) Position() (float64, float64) {
	pos := p.body.Position()
	return pos.X, pos.Y
}

// OnResize resizes the player's camera.
func (p *Player) OnResize(width, height int) {
	p.View.OnResize(width, height)
}

func (p *Player) update() {
	p.Controls.poll()

	var vel cp.Vector
	if !p.InMenu && p.Controls.enabled && p.keys != nil {
		if p.keys.IsKeyDown(ebiten.KeyArrowLeft) {
			p.View.Angle -= playerTurnSpeed
		}
		if p.keys.IsKeyDown(ebiten.KeyArrowRight) {
			p.View.Angle += playerTurnSpeed
		}

		var forward, strafe float64
		if p.keys.IsKeyDown(ebiten.KeyW) || p.keys.IsKeyDown(ebiten.KeyArrowUp) {
			forward++
		}
		if p.keys.IsKeyDown(ebiten.KeyS) || p.keys.IsKeyDown(ebiten.KeyArrowDown) {
			forward--
		}
		if p.keys.IsKeyDown(ebiten.KeyD) {
			strafe++
		}
		if p.keys.IsKeyDown(ebiten.KeyA) {
			strafe--
		}

		speed := playerSpeed
		if p.keys.IsKeyDown(ebiten.KeyShiftLeft) {
			speed *= 1.6
		}
		cos, sin := math.Cos(p.View.Angle), math.Sin(p.View.Angle)
		vel = cp.Vector{
			X: (cos*forward - sin*strafe) * speed,
			Y: (sin*forward + cos*strafe) * speed,
		}
		if forward != 0 && strafe != 0 {
			vel = vel.Mult(1 / math.Sqrt2)
		}
	}
	p.body.SetVelocityVector(vel)

	if vel.LengthSq() > 0 {
		p.stepTimer++
		if p.stepTimer >= stepInterval {
			p.stepTimer = 0
			if p.step != nil {
				p.step()
			}
		}
	} else {
		p.stepTimer = 0
	}
}

func (p *Player) syncView() {
	p.View.X, p.View.Y = p.Position()
}
