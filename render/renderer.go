package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/colorm"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/airstrip/lifecycle"
	"github.com/milk9111/airstrip/world"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"
)

const (
	stripWidth   = 2
	minimapScale = 4
)

var floorColor = color.RGBA{R: 0x2b, G: 0x2b, B: 0x2b, A: 0xff}

// Renderer draws the world from the player's view as ray-cast wall columns
// with distance fog, plus a minimap.
type Renderer struct {
	log *zap.Logger

	scene  *lifecycle.Scene
	world  *world.World
	fov    int
	paused bool

	width, height int
	frame         *ebiten.Image
	minimap       *ebiten.Image
}

func New(fov, width, height int, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{log: logger.Named("render"), fov: fov, width: width, height: height}
}

func (r *Renderer) Init() {
	r.log.Debug("renderer ready", zap.Int("width", r.width), zap.Int("height", r.height), zap.Int("fov", r.fov))
}

func (r *Renderer) SetScene(scene *lifecycle.Scene) {
	r.scene = scene
}

// SetWorld binds the renderer to w. Worlds of another type draw nothing.
func (r *Renderer) SetWorld(w lifecycle.World) {
	r.minimap = nil
	ww, ok := w.(*world.World)
	if !ok {
		r.world = nil
		r.log.Warn("unsupported world type")
		return
	}
	r.world = ww
}

// SetFov changes the projection used for the ray fan.
func (r *Renderer) SetFov(fov int) {
	r.fov = fov
}

// SetPausedMode draws the scene desaturated behind the menu.
func (r *Renderer) SetPausedMode(paused bool) {
	r.paused = paused
}

func (r *Renderer) OnResize(width, height int) {
	if width == r.width && height == r.height {
		return
	}
	r.width, r.height = width, height
	if r.frame != nil {
		r.frame.Deallocate()
		r.frame = nil
	}
}

// Reset drops the world and scene. The minimap belongs to the world and is
// released with it.
func (r *Renderer) Reset() {
	r.world = nil
	r.scene = nil
	r.minimap = nil
	r.paused = false
}

func (r *Renderer) Draw(screen *ebiten.Image) {
	if !r.paused {
		r.drawScene(screen)
		return
	}
	b := screen.Bounds()
	if r.frame != nil && r.frame.Bounds() != b {
		r.frame.Deallocate()
		r.frame = nil
	}
	if r.frame == nil {
		r.frame = ebiten.NewImage(b.Dx(), b.Dy())
	}
	r.frame.Clear()
	r.drawScene(r.frame)

	var cm colorm.ColorM
	cm.ChangeHSV(0, 0.2, 0.55)
	colorm.DrawImage(screen, r.frame, cm, &colorm.DrawImageOptions{})
}

func (r *Renderer) drawScene(dst *ebiten.Image) {
	if r.scene == nil || r.world == nil || r.world.Disposed() {
		dst.Fill(colornames.Black)
		return
	}
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	vector.FillRect(dst, 0, 0, float32(w), float32(h)/2, r.scene.Clear, false)
	vector.FillRect(dst, 0, float32(h)/2, float32(w), float32(h)/2, floorColor, false)

	r.drawWalls(dst, w, h)
	r.drawMinimap(dst)
}

func (r *Renderer) drawWalls(dst *ebiten.Image, w, h int) {
	m := r.world.Map()
	view := *r.world.View()
	view.Fov = r.fov
	view.Width, view.Height = w, h
	dir, plane := view.Dir(), view.Plane()
	ox, oy := view.X/world.TileSize, view.Y/world.TileSize

	for x := 0; x < w; x += stripWidth {
		cam := 2*float64(x)/float64(w) - 1
		ray := castRay(m, ox, oy, dir.X()+plane.X()*cam, dir.Y()+plane.Y()*cam)
		if !ray.OK {
			continue
		}
		lineH := columnHeight(ray.Dist, h, r.fov)
		top := (float64(h) - lineH) / 2
		clr := shade(wallColor(ray.Tile), ray.Side, r.scene.Fog, ray.Dist*world.TileSize)
		vector.FillRect(dst, float32(x), float32(top), stripWidth, float32(lineH), clr, false)
	}
}

// drawMinimap draws the map overview in the top-left corner. The static
// layer is built once per world and owned by it.
func (r *Renderer) drawMinimap(dst *ebiten.Image) {
	if r.minimap == nil {
		r.minimap = r.buildMinimap()
		if r.minimap == nil {
			return
		}
	}
	const margin = 8
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(margin, margin)
	op.ColorScale.ScaleAlpha(0.8)
	dst.DrawImage(r.minimap, op)

	x, y := r.world.Player().Position()
	px := float32(margin + x/world.TileSize*minimapScale)
	py := float32(margin + y/world.TileSize*minimapScale)
	vector.FillRect(dst, px-1, py-1, 3, 3, colornames.Yellow, false)
}

func (r *Renderer) buildMinimap() *ebiten.Image {
	m := r.world.Map()
	img := ebiten.NewImage(m.Width*minimapScale, m.Height*minimapScale)
	img.Fill(color.RGBA{A: 0x80})
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.Solid(x, y) {
				continue
			}
			vector.FillRect(img, float32(x*minimapScale), float32(y*minimapScale), minimapScale, minimapScale, wallColor(m.At(x, y)), false)
		}
	}
	for _, inst := range r.world.Models() {
		mx := float32(inst.X / world.TileSize * minimapScale)
		my := float32(inst.Y / world.TileSize * minimapScale)
		vector.FillRect(img, mx-1, my-1, 2, 2, colornames.Orange, false)
	}
	if err := r.world.Own(imageCloser{img}); err != nil {
		img.Deallocate()
		return nil
	}
	return img
}

type imageCloser struct {
	img *ebiten.Image
}

func (c imageCloser) Close() error {
	c.img.Deallocate()
	return nil
}
