package levels

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Map is a parsed tile map. Tiles are row-major; 0 is empty floor and any
// positive value is a wall of that material.
type Map struct {
	Name     string   `json:"name"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Tiles    []int    `json:"tiles"`
	Spawn    Spawn    `json:"spawn"`
	Entities []Entity `json:"entities,omitempty"`
}

type Spawn struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Angle float64 `json:"angle"`
}

// Entity is a placed object such as a model instance or a sound emitter.
type Entity struct {
	Type  string         `json:"type"`
	X     float64        `json:"x"`
	Y     float64        `json:"y"`
	Model string         `json:"model,omitempty"`
	Props map[string]any `json:"props,omitempty"`
}

var ErrInvalidMap = errors.New("levels: invalid map")

const schemaURL = "map.schema.json"

const mapSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["width", "height", "tiles", "spawn"],
	"properties": {
		"name": {"type": "string"},
		"width": {"type": "integer", "minimum": 1},
		"height": {"type": "integer", "minimum": 1},
		"tiles": {"type": "array", "items": {"type": "integer", "minimum": 0}},
		"spawn": {
			"type": "object",
			"required": ["x", "y"],
			"properties": {
				"x": {"type": "number"},
				"y": {"type": "number"},
				"angle": {"type": "number"}
			}
		},
		"entities": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["type", "x", "y"],
				"properties": {
					"type": {"type": "string", "minLength": 1},
					"x": {"type": "number"},
					"y": {"type": "number"},
					"model": {"type": "string"}
				}
			}
		}
	}
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, strings.NewReader(mapSchema)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Parse validates data against the map schema and decodes it. name is used
// when the file does not carry its own name.
func Parse(name string, data []byte) (*Map, error) {
	s, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("levels: compile schema: %w", err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("levels: decode %s: %w", name, err)
	}
	if err := s.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidMap, name, err)
	}

	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("levels: decode %s: %w", name, err)
	}
	if m.Name == "" {
		m.Name = name
	}
	if len(m.Tiles) != m.Width*m.Height {
		return nil, fmt.Errorf("%w: %s: %d tiles for %dx%d", ErrInvalidMap, name, len(m.Tiles), m.Width, m.Height)
	}
	if m.Solid(int(math.Floor(m.Spawn.X)), int(math.Floor(m.Spawn.Y))) {
		return nil, fmt.Errorf("%w: %s: spawn (%.1f, %.1f) is inside a wall", ErrInvalidMap, name, m.Spawn.X, m.Spawn.Y)
	}
	return &m, nil
}

// At returns the tile at (x, y). Out-of-range tiles read as wall material 1
// so the map is always closed.
func (m *Map) At(x, y int) int {
	if m == nil || x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return 1
	}
	return m.Tiles[y*m.Width+x]
}

// Solid reports whether the tile at (x, y) blocks movement.
func (m *Map) Solid(x, y int) bool {
	return m.At(x, y) > 0
}
