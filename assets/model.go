package assets

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Model is a triangle mesh read from a Wavefront OBJ file. Only vertex
// positions and faces are kept.
type Model struct {
	Name     string
	Vertices [][3]float64
	Faces    [][3]int
}

// TriangleCount returns the number of faces.
func (m *Model) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Faces)
}

// ParseModel reads "v" and "f" records. Polygons with more than three
// vertices are fanned into triangles; texture and normal indices are ignored.
func ParseModel(name string, r io.Reader) (*Model, error) {
	m := &Model{Name: name}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("model %s:%d: vertex needs 3 coordinates", name, line)
			}
			var v [3]float64
			for i := 0; i < 3; i++ {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("model %s:%d: %w", name, line, err)
				}
				v[i] = f
			}
			m.Vertices = append(m.Vertices, v)
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("model %s:%d: face needs 3 vertices", name, line)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, field := range fields[1:] {
				ref, _, _ := strings.Cut(field, "/")
				n, err := strconv.Atoi(ref)
				if err != nil {
					return nil, fmt.Errorf("model %s:%d: %w", name, line, err)
				}
				if n < 0 {
					n = len(m.Vertices) + n + 1
				}
				if n < 1 || n > len(m.Vertices) {
					return nil, fmt.Errorf("model %s:%d: vertex index %d out of range", name, line, n)
				}
				idx = append(idx, n-1)
			}
			for i := 1; i+1 < len(idx); i++ {
				m.Faces = append(m.Faces, [3]int{idx[0], idx[i], idx[i+1]})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("model %s: %w", name, err)
	}
	return m, nil
}
