package ui

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/airstrip/assets"
)

const (
	barWidth  = 320
	barHeight = 12
)

var (
	barBack = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	barFill = color.RGBA{R: 0xd0, G: 0xb0, B: 0x40, A: 0xff}
)

// Loading is the progress screen shown while assets load and the world is
// built.
type Loading struct {
	face    text.Face
	visible bool
	percent float64
	width   int
	height  int
}

func NewLoading() *Loading {
	return &Loading{}
}

func (l *Loading) Init() {
	l.face = defaultFace()
}

// Reset zeroes the progress.
func (l *Loading) Reset() {
	l.percent = 0
}

func (l *Loading) Show() { l.visible = true }
func (l *Loading) Hide() { l.visible = false }

func (l *Loading) Visible() bool {
	return l.visible
}

// UpdateProgress never moves the bar backwards within one load.
func (l *Loading) UpdateProgress(p assets.Progress) {
	l.percent = math.Max(l.percent, p.Fraction())
}

// Percent is the displayed progress, 0..100.
func (l *Loading) Percent() int {
	return int(math.Floor(l.percent * 100))
}

func (l *Loading) OnResize(width, height int) {
	l.width, l.height = width, height
}

func (l *Loading) Draw(screen *ebiten.Image) {
	if !l.visible {
		return
	}
	screen.Fill(color.Black)
	b := screen.Bounds()
	x := float32(b.Dx()-barWidth) / 2
	y := float32(b.Dy()-barHeight) / 2
	vector.FillRect(screen, x, y, barWidth, barHeight, barBack, false)
	vector.FillRect(screen, x, y, float32(barWidth*l.percent), barHeight, barFill, false)

	if l.face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y)-20)
	text.Draw(screen, fmt.Sprintf("Loading %d%%", l.Percent()), l.face, op)
}
