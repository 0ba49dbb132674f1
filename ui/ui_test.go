package ui

import (
	"testing"

	"github.com/milk9111/airstrip/assets"
	"github.com/milk9111/airstrip/lifecycle"
	"github.com/milk9111/airstrip/tween"
)

func TestLoadingProgress(t *testing.T) {
	l := NewLoading()
	tests := []struct {
		in   assets.Progress
		want int
	}{
		{assets.Progress{Loaded: 0, Total: 4}, 0},
		{assets.Progress{Loaded: 1, Total: 4}, 25},
		{assets.Progress{Loaded: 3, Total: 4}, 75},
		// A late progress event never moves the bar back.
		{assets.Progress{Loaded: 2, Total: 4}, 75},
		{assets.Progress{Loaded: 4, Total: 4}, 100},
	}
	for _, tc := range tests {
		l.UpdateProgress(tc.in)
		if got := l.Percent(); got != tc.want {
			t.Fatalf("after %+v: expected %d%%, got %d%%", tc.in, tc.want, got)
		}
	}

	l.Reset()
	if l.Percent() != 0 {
		t.Fatalf("reset should zero progress")
	}
	l.Show()
	if !l.Visible() {
		t.Fatalf("expected visible")
	}
	l.Hide()
	if l.Visible() {
		t.Fatalf("expected hidden")
	}
}

func TestOverlayBannerFades(t *testing.T) {
	ticker := tween.NewTicker()
	o := NewOverlay(ticker)
	o.Bind(lifecycle.LevelInfo{Map: "hangar", Triangles: 90})

	if o.Info().Map != "hangar" || o.BannerAlpha() != 1 {
		t.Fatalf("bind should show the banner, got %+v alpha %v", o.Info(), o.BannerAlpha())
	}
	for i := 0; i < bannerFrames/2; i++ {
		ticker.TickAll()
	}
	if a := o.BannerAlpha(); a <= 0 || a >= 1 {
		t.Fatalf("expected a partial fade, got %v", a)
	}
	for i := 0; i < bannerFrames; i++ {
		ticker.TickAll()
	}
	if o.BannerAlpha() != 0 || ticker.Len() != 0 {
		t.Fatalf("banner tween should finish at zero")
	}
}

func TestOverlayResetClearsMenu(t *testing.T) {
	o := NewOverlay(nil)
	o.Bind(lifecycle.LevelInfo{Map: "airstrip1"})
	o.SetMenuActive(true)
	o.Show()

	o.Reset()
	if o.MenuActive() || o.Info() != (lifecycle.LevelInfo{}) || o.BannerAlpha() != 0 {
		t.Fatalf("reset should clear level and menu state")
	}
	if !o.Visible() {
		t.Fatalf("reset should leave visibility to the controller")
	}
	o.Update()
}
