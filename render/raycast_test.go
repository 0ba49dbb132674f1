package render

import (
	"image/color"
	"math"
	"testing"

	"github.com/milk9111/airstrip/levels"
	"github.com/milk9111/airstrip/lifecycle"
)

func room(t *testing.T) *levels.Map {
	t.Helper()
	m, err := levels.Parse("room", []byte(`{
		"width": 5, "height": 5,
		"tiles": [
			1,1,1,1,1,
			1,0,0,0,1,
			1,0,0,0,2,
			1,0,0,0,1,
			1,1,1,1,1
		],
		"spawn": {"x": 2.5, "y": 2.5}
	}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return m
}

func TestCastRay(t *testing.T) {
	m := room(t)
	tests := []struct {
		name   string
		dx, dy float64
		dist   float64
		side   int
		tile   int
	}{
		{"east", 1, 0, 1.5, 0, 2},
		{"west", -1, 0, 1.5, 0, 1},
		{"south", 0, 1, 1.5, 1, 1},
		{"north", 0, -1, 1.5, 1, 1},
		{"diagonal", 1, 1, 1.5, 0, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := castRay(m, 2.5, 2.5, tc.dx, tc.dy)
			if !h.OK {
				t.Fatalf("expected a hit")
			}
			if math.Abs(h.Dist-tc.dist) > 1e-9 || h.Tile != tc.tile {
				t.Fatalf("expected dist %v tile %d, got %+v", tc.dist, tc.tile, h)
			}
			if tc.name != "diagonal" && h.Side != tc.side {
				t.Fatalf("expected side %d, got %d", tc.side, h.Side)
			}
		})
	}
}

func TestFogFactor(t *testing.T) {
	fog := lifecycle.NewScene().Fog
	tests := []struct {
		dist float64
		want float64
	}{
		{0, 0},
		{500, 0},
		{700, 0.5},
		{900, 1},
		{5000, 1},
	}
	for _, tc := range tests {
		if got := fogFactor(fog, tc.dist); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("fogFactor(%v) = %v, want %v", tc.dist, got, tc.want)
		}
	}
}

func TestShadeBlendsIntoFog(t *testing.T) {
	fog := lifecycle.NewScene().Fog
	base := color.RGBA{R: 200, G: 100, B: 40, A: 0xff}

	if got := shade(base, 0, fog, 100); got != base {
		t.Fatalf("near walls should keep their color, got %v", got)
	}
	if got := shade(base, 0, fog, 1000); got != fog.Color {
		t.Fatalf("far walls should take the fog color, got %v", got)
	}
	if got := shade(base, 1, fog, 100); got.R != 150 || got.G != 75 || got.B != 30 {
		t.Fatalf("y-facing walls should be darker, got %v", got)
	}
}

func TestColumnHeight(t *testing.T) {
	if got := columnHeight(1, 720, 90); math.Abs(got-360) > 1e-9 {
		t.Fatalf("a wall one tile away at 90 degrees should span half the screen, got %v", got)
	}
	if columnHeight(2, 720, 90) >= columnHeight(1, 720, 90) {
		t.Fatalf("farther walls should be shorter")
	}
	if columnHeight(1, 720, 60) <= columnHeight(1, 720, 90) {
		t.Fatalf("narrower fov should magnify")
	}
	if math.IsInf(columnHeight(0, 720, 90), 0) {
		t.Fatalf("zero distance should stay finite")
	}
}

func TestWallColorWraps(t *testing.T) {
	if wallColor(1) != wallColor(1+len(wallPalette)) || wallColor(0) != wallColor(1) {
		t.Fatalf("palette should wrap and treat non-walls as the first material")
	}
}
