package world

import (
	"errors"
	"io"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/airstrip/assets"
	"github.com/milk9111/airstrip/levels"
	"go.uber.org/multierr"
)

// TileSize is the edge of one map tile in world units.
const TileSize = 64.0

const stepDT = 1.0 / 60.0

const (
	collisionTypeWall cp.CollisionType = iota + 1
	collisionTypeModel
	collisionTypePlayer
)

var ErrDisposed = errors.New("world: disposed")

// ModelInstance is a placed model in world units.
type ModelInstance struct {
	X, Y  float64
	Model *assets.Model
}

// World is the interactive scene built from one map: the chipmunk space
// holding walls and models, the player and the views bound to it.
type World struct {
	level  *levels.Map
	space  *cp.Space
	player *Player
	models []ModelInstance

	triangles int
	frames    int

	resources []io.Closer
	disposed  bool
}

// Update advances the simulation by one frame.
func (w *World) Update() {
	if w == nil || w.disposed {
		return
	}
	w.player.update()
	w.space.Step(stepDT)
	w.player.syncView()
	w.frames++
}

// Map returns the map the world was built from.
func (w *World) Map() *levels.Map {
	return w.level
}

func (w *World) Player() *Player {
	return w.player
}

// View returns the player's camera.
func (w *World) View() *View {
	return w.player.View
}

func (w *World) Models() []ModelInstance {
	return w.models
}

func (w *World) Space() *cp.Space {
	return w.space
}

// Frames counts simulated frames since the world was built.
func (w *World) Frames() int {
	return w.frames
}

// TriangleCount is the collision and model triangle count of the scene.
func (w *World) TriangleCount() int {
	return w.triangles
}

// EnterMenu freezes the player's own input and releases pointer capture.
func (w *World) EnterMenu() {
	w.player.InMenu = true
	w.player.Controls.Disable()
	w.player.Controls.DetachEvents()
}

// LeaveMenu restores input and pointer capture.
func (w *World) LeaveMenu() {
	w.player.InMenu = false
	w.player.Controls.AttachEvents()
	w.player.Controls.Enable()
}

func (w *World) InMenu() bool {
	return w.player.InMenu
}

// CaptureLost reports that the pointer capture was lost during play.
func (w *World) CaptureLost() bool {
	return w.player.Controls.CaptureLost()
}

// OnResize resizes the grid views and the player's camera.
func (w *World) OnResize(width, height int) {
	w.player.OnResize(width, height)
}

// UpdateFov applies a new vertical field of view to the player's camera.
func (w *World) UpdateFov(fov int) {
	w.player.View.SetFov(fov)
}

// Own hands a resource to the world; it is closed on Dispose.
func (w *World) Own(c io.Closer) error {
	if w.disposed {
		return ErrDisposed
	}
	w.resources = append(w.resources, c)
	return nil
}

// Dispose releases owned resources and empties the space. A disposed world
// ignores further updates.
func (w *World) Dispose() error {
	if w == nil || w.disposed {
		return nil
	}
	w.disposed = true

	if w.player.Controls.attached {
		w.player.Controls.DetachEvents()
	}

	var errs error
	for i := len(w.resources) - 1; i >= 0; i-- {
		errs = multierr.Append(errs, w.resources[i].Close())
	}
	w.resources = nil

	var shapes []*cp.Shape
	w.space.EachShape(func(s *cp.Shape) {
		shapes = append(shapes, s)
	})
	for _, s := range shapes {
		w.space.RemoveShape(s)
	}
	if w.player.body != nil {
		w.space.RemoveBody(w.player.body)
	}
	w.space = nil
	return errs
}

func (w *World) Disposed() bool {
	return w.disposed
}
