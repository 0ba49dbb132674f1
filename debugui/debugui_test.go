package debugui

import (
	"strings"
	"testing"

	"github.com/milk9111/airstrip/lifecycle"
)

func TestText(t *testing.T) {
	d := New("", nil)
	d.fps = func() float64 { return 59.5 }
	d.Init()

	d.Update(lifecycle.DebugStats{Phase: lifecycle.Loading, Frame: 12, Fov: 75})
	got := d.Text()
	for _, want := range []string{"FPS: 59.50", "phase: Loading", "frame: 12", "fov: 75"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in %q", want, got)
		}
	}
	if strings.Contains(got, "map:") {
		t.Fatalf("no map line expected before a world exists: %q", got)
	}

	d.Update(lifecycle.DebugStats{Phase: lifecycle.Play, Map: "hangar", Triangles: 90})
	if got := d.Text(); !strings.Contains(got, "map: hangar") || !strings.Contains(got, "triangles: 90") {
		t.Fatalf("expected map stats in %q", got)
	}
}

func TestVisibility(t *testing.T) {
	d := New("", nil)
	if d.Visible() {
		t.Fatalf("overlay starts hidden")
	}
	d.SetVisible(true)
	if !d.Visible() {
		t.Fatalf("expected visible")
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
