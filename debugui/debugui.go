// Package debugui draws the debug text overlay and optionally serves live
// runtime charts.
package debugui

import (
	"fmt"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/airstrip/lifecycle"
	"go.uber.org/zap"
)

type Overlay struct {
	log       *zap.Logger
	statsAddr string
	stats     *statsview.ViewManager
	fps       func() float64

	visible bool
	current lifecycle.DebugStats
}

// New returns a hidden overlay. A non-empty statsAddr serves runtime charts
// there once Init runs.
func New(statsAddr string, logger *zap.Logger) *Overlay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Overlay{log: logger.Named("debugui"), statsAddr: statsAddr, fps: ebiten.ActualFPS}
}

func (d *Overlay) Init() {
	if d.statsAddr == "" || d.stats != nil {
		return
	}
	viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(d.statsAddr))
	d.stats = statsview.New()
	go func() {
		if err := d.stats.Start(); err != nil {
			d.log.Warn("stats viewer stopped", zap.Error(err))
		}
	}()
	d.log.Info("stats viewer", zap.String("addr", "http://"+d.statsAddr+"/debug/statsview"))
}

// Close stops the stats viewer.
func (d *Overlay) Close() error {
	if d.stats != nil {
		d.stats.Stop()
		d.stats = nil
	}
	return nil
}

func (d *Overlay) Update(stats lifecycle.DebugStats) {
	d.current = stats
}

func (d *Overlay) SetVisible(visible bool) { d.visible = visible }
func (d *Overlay) Visible() bool           { return d.visible }

// Text is the overlay's current contents.
func (d *Overlay) Text() string {
	s := d.current
	text := fmt.Sprintf("FPS: %.2f\nphase: %v\nframe: %d\nfov: %d", d.fps(), s.Phase, s.Frame, s.Fov)
	if s.Map != "" {
		text += fmt.Sprintf("\nmap: %s\ntriangles: %d", s.Map, s.Triangles)
	}
	return text
}

func (d *Overlay) Draw(screen *ebiten.Image) {
	if !d.visible {
		return
	}
	ebitenutil.DebugPrintAt(screen, d.Text(), 8, screen.Bounds().Dy()-80)
}
