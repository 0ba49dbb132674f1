package render

import (
	"image/color"
	"math"

	"github.com/milk9111/airstrip/levels"
	"github.com/milk9111/airstrip/lifecycle"
)

// hit is one ray's first wall intersection. Dist is the perpendicular
// distance in tiles.
type hit struct {
	Dist float64
	Side int
	Tile int
	OK   bool
}

// castRay walks the grid from (ox, oy) along (dx, dy), both in tile units,
// until it enters a solid tile.
func castRay(m *levels.Map, ox, oy, dx, dy float64) hit {
	mapX, mapY := int(math.Floor(ox)), int(math.Floor(oy))

	deltaX, deltaY := math.Inf(1), math.Inf(1)
	if dx != 0 {
		deltaX = math.Abs(1 / dx)
	}
	if dy != 0 {
		deltaY = math.Abs(1 / dy)
	}

	stepX, sideX := 1, (float64(mapX)+1-ox)*deltaX
	if dx < 0 {
		stepX, sideX = -1, (ox-float64(mapX))*deltaX
	}
	stepY, sideY := 1, (float64(mapY)+1-oy)*deltaY
	if dy < 0 {
		stepY, sideY = -1, (oy-float64(mapY))*deltaY
	}

	limit := m.Width + m.Height + 2
	for i := 0; i < limit; i++ {
		side := 0
		if sideX < sideY {
			sideX += deltaX
			mapX += stepX
		} else {
			sideY += deltaY
			mapY += stepY
			side = 1
		}
		if !m.Solid(mapX, mapY) {
			continue
		}
		dist := sideY - deltaY
		if side == 0 {
			dist = sideX - deltaX
		}
		return hit{Dist: dist, Side: side, Tile: m.At(mapX, mapY), OK: true}
	}
	return hit{}
}

// fogFactor is 0 up to Near, 1 from Far, linear between.
func fogFactor(fog lifecycle.Fog, dist float64) float64 {
	if fog.Far <= fog.Near {
		if dist >= fog.Far {
			return 1
		}
		return 0
	}
	f := (dist - fog.Near) / (fog.Far - fog.Near)
	return math.Max(0, math.Min(1, f))
}

// shade darkens y-facing walls and blends toward the fog color.
func shade(base color.RGBA, side int, fog lifecycle.Fog, dist float64) color.RGBA {
	if side == 1 {
		dim := func(c uint8) uint8 { return uint8(uint16(c) * 3 / 4) }
		base = color.RGBA{R: dim(base.R), G: dim(base.G), B: dim(base.B), A: base.A}
	}
	f := fogFactor(fog, dist)
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a)*(1-f) + float64(b)*f))
	}
	return color.RGBA{
		R: mix(base.R, fog.Color.R),
		G: mix(base.G, fog.Color.G),
		B: mix(base.B, fog.Color.B),
		A: 0xff,
	}
}

// columnHeight is the on-screen height of a one-tile wall at dist tiles
// under a vertical field of view of fov degrees.
func columnHeight(dist float64, screenHeight int, fov int) float64 {
	if dist <= 1e-6 {
		dist = 1e-6
	}
	half := math.Tan(float64(fov) * math.Pi / 360)
	return float64(screenHeight) / (2 * half * dist)
}

var wallPalette = []color.RGBA{
	{R: 0x8a, G: 0x8a, B: 0x80, A: 0xff},
	{R: 0x6b, G: 0x7d, B: 0x5c, A: 0xff},
	{R: 0x9c, G: 0x6b, B: 0x4a, A: 0xff},
	{R: 0x5a, G: 0x6e, B: 0x8c, A: 0xff},
}

func wallColor(tile int) color.RGBA {
	if tile <= 0 {
		tile = 1
	}
	return wallPalette[(tile-1)%len(wallPalette)]
}
