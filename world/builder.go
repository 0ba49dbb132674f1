package world

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/airstrip/assets"
	"github.com/milk9111/airstrip/levels"
	"go.uber.org/zap"
)

const (
	modelRadius       = 22.0
	trianglesPerFace  = 2
	defaultModelTris  = 12
	defaultViewWidth  = 1280
	defaultViewHeight = 720
)

// SoundPlayer plays a named effect.
type SoundPlayer interface {
	Play(name string)
}

// Builder constructs worlds. Its collaborators are shared by every world it
// builds.
type Builder struct {
	Keys    KeyState
	Focused func() bool
	Capture func(captured bool)
	Sounds  SoundPlayer
	Fov     func() int
	Log     *zap.Logger
}

// Build creates a world from a parsed map and the loaded assets.
func (b *Builder) Build(m *levels.Map, bundle *assets.Bundle) (*World, error) {
	if m == nil {
		return nil, fmt.Errorf("world: build: nil map")
	}

	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{})

	w := &World{level: m, space: space}
	w.triangles = buildWalls(space, m)

	for _, ent := range m.Entities {
		if ent.Type != "model" {
			continue
		}
		var model *assets.Model
		if bundle != nil {
			model = bundle.Models[ent.Model]
		}
		inst := ModelInstance{X: ent.X * TileSize, Y: ent.Y * TileSize, Model: model}
		shape := cp.NewCircle(space.StaticBody, modelRadius, cp.Vector{X: inst.X, Y: inst.Y})
		shape.SetCollisionType(collisionTypeModel)
		shape.SetFriction(0)
		space.AddShape(shape)
		w.models = append(w.models, inst)

		if model != nil {
			w.triangles += model.TriangleCount()
		} else {
			w.triangles += defaultModelTris
			b.logger().Warn("model missing from bundle", zap.String("model", ent.Model), zap.String("map", m.Name))
		}
	}

	fov := 75
	if b.Fov != nil {
		fov = b.Fov()
	}
	w.player = b.newPlayer(space, m, fov)
	return w, nil
}

func (b *Builder) newPlayer(space *cp.Space, m *levels.Map, fov int) *Player {
	body := cp.NewBody(1, math.Inf(1))
	body.SetPosition(cp.Vector{X: m.Spawn.X * TileSize, Y: m.Spawn.Y * TileSize})
	shape := cp.NewCircle(body, playerRadius, cp.Vector{})
	shape.SetFriction(0)
	shape.SetCollisionType(collisionTypePlayer)
	space.AddBody(body)
	space.AddShape(shape)

	p := &Player{
		Controls: &Controls{capture: b.Capture, focused: b.Focused},
		View:     NewView(fov, defaultViewWidth, defaultViewHeight),
		body:     body,
		shape:    shape,
		keys:     b.Keys,
	}
	if b.Sounds != nil {
		p.step = func() { b.Sounds.Play("step") }
	}
	p.View.Angle = m.Spawn.Angle
	p.syncView()
	return p
}

func (b *Builder) logger() *zap.Logger {
	if b.Log == nil {
		return zap.NewNop()
	}
	return b.Log
}

// buildWalls adds one static box per wall tile and returns the triangle
// count of the faces that border open floor.
func buildWalls(space *cp.Space, m *levels.Map) int {
	triangles := 0
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.Solid(x, y) {
				continue
			}
			bb := cp.BB{
				L: float64(x) * TileSize,
				B: float64(y) * TileSize,
				R: float64(x+1) * TileSize,
				T: float64(y+1) * TileSize,
			}
			shape := cp.NewBox2(space.StaticBody, bb, 0)
			shape.SetFriction(0)
			shape.SetCollisionType(collisionTypeWall)
			space.AddShape(shape)

			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || ny < 0 || nx >= m.Width || ny >= m.Height {
					continue
				}
				if !m.Solid(nx, ny) {
					triangles += trianglesPerFace
				}
			}
		}
	}
	return triangles
}
