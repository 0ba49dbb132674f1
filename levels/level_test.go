package levels

import (
	"errors"
	"testing"
)

const smallMap = `{
	"width": 3,
	"height": 3,
	"tiles": [1,1,1, 1,0,1, 1,1,1],
	"spawn": {"x": 1.5, "y": 1.5, "angle": 0},
	"entities": [{"type": "model", "x": 1.2, "y": 1.2, "model": "crate"}]
}`

func TestParseValidMap(t *testing.T) {
	m, err := Parse("small", []byte(smallMap))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Name != "small" {
		t.Fatalf("expected fallback name, got %q", m.Name)
	}
	if m.Width != 3 || m.Height != 3 || len(m.Entities) != 1 {
		t.Fatalf("unexpected map: %+v", m)
	}
	if m.Solid(1, 1) {
		t.Fatalf("center tile should be open")
	}
	if !m.Solid(-1, 0) || !m.Solid(3, 3) {
		t.Fatalf("out-of-range tiles should read as walls")
	}
}

func TestParseRejects(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not_json", `{`},
		{"missing_spawn", `{"width": 1, "height": 1, "tiles": [0]}`},
		{"negative_tile", `{"width": 1, "height": 1, "tiles": [-1], "spawn": {"x": 0, "y": 0}}`},
		{"tile_count", `{"width": 2, "height": 2, "tiles": [0], "spawn": {"x": 0, "y": 0}}`},
		{"spawn_in_wall", `{"width": 1, "height": 1, "tiles": [1], "spawn": {"x": 0.5, "y": 0.5}}`},
		{"entity_without_type", `{"width": 1, "height": 1, "tiles": [0], "spawn": {"x": 0.5, "y": 0.5}, "entities": [{"x": 0, "y": 0}]}`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Parse(c.name, []byte(c.data)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParseSchemaErrorsWrapSentinel(t *testing.T) {
	_, err := Parse("bad", []byte(`{"width": 0, "height": 1, "tiles": [], "spawn": {"x": 0, "y": 0}}`))
	if !errors.Is(err, ErrInvalidMap) {
		t.Fatalf("expected ErrInvalidMap, got %v", err)
	}
}
