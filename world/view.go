package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	nearPlane = 1.0
	farPlane  = 2000.0
)

// View is the camera bound to the player. Fov is vertical, in degrees.
type View struct {
	X, Y  float64
	Angle float64
	Fov   int

	Width  int
	Height int

	Projection mgl32.Mat4
}

func NewView(fov, width, height int) *View {
	v := &View{Fov: fov, Width: width, Height: height}
	v.updateProjection()
	return v
}

// OnResize adopts a new viewport size and recomputes the projection.
func (v *View) OnResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	v.Width = width
	v.Height = height
	v.updateProjection()
}

// SetFov changes the vertical field of view and recomputes the projection.
func (v *View) SetFov(fov int) {
	v.Fov = fov
	v.updateProjection()
}

func (v *View) Aspect() float64 {
	if v.Height <= 0 {
		return 1
	}
	return float64(v.Width) / float64(v.Height)
}

// Dir is the unit facing vector.
func (v *View) Dir() mgl64.Vec2 {
	return mgl64.Vec2{math.Cos(v.Angle), math.Sin(v.Angle)}
}

// Plane is the camera plane used for ray casting. Its length is
// tan(hfov/2), which keeps the ray fan consistent with Projection.
func (v *View) Plane() mgl64.Vec2 {
	half := math.Tan(mgl64.DegToRad(float64(v.Fov))/2) * v.Aspect()
	d := v.Dir()
	return mgl64.Vec2{-d.Y(), d.X()}.Mul(half)
}

func (v *View) updateProjection() {
	v.Projection = mgl32.Perspective(mgl32.DegToRad(float32(v.Fov)), float32(v.Aspect()), nearPlane, farPlane)
}
