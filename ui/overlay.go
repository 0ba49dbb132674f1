package ui

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/airstrip/lifecycle"
	"github.com/milk9111/airstrip/tween"
	"golang.org/x/image/font/basicfont"
)

const bannerFrames = 120

var (
	white     = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	panelFill = color.NRGBA{A: 200}
	btnFill   = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	btnHover  = color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
)

func defaultFace() text.Face {
	return text.NewGoXFace(basicfont.Face7x13)
}

// Overlay is the in-game HUD and pause menu.
type Overlay struct {
	OnResume  func()
	OnNewGame func()

	face   text.Face
	tweens *tween.Ticker

	ui   *ebitenui.UI
	hud  *widget.Text
	menu *widget.Container

	visible    bool
	menuActive bool
	info       lifecycle.LevelInfo

	banner      string
	bannerAlpha float64
	width       int
	height      int
}

// NewOverlay returns an overlay whose banner fades on tweens.
func NewOverlay(tweens *tween.Ticker) *Overlay {
	return &Overlay{tweens: tweens}
}

// Init builds the widget tree.
func (o *Overlay) Init() {
	o.face = defaultFace()
	face := o.face

	o.hud = widget.NewText(
		widget.TextOpts.Text("", &face, white),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
			HorizontalPosition: widget.AnchorLayoutPositionEnd,
			VerticalPosition:   widget.AnchorLayoutPositionStart,
		})),
	)

	o.menu = o.buildMenu(&face)
	o.menu.GetWidget().Visibility = widget.Visibility_Hide

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(o.hud)
	root.AddChild(o.menu)
	o.ui = &ebitenui.UI{Container: root}
}

func (o *Overlay) buildMenu(face *text.Face) *widget.Container {
	btnImg := &widget.ButtonImage{
		Idle:    imageui.NewNineSliceColor(btnFill),
		Hover:   imageui.NewNineSliceColor(btnHover),
		Pressed: imageui.NewNineSliceColor(btnHover),
	}
	btnText := &widget.ButtonTextColor{Idle: white}
	center := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter, Stretch: true})

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(panelFill)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(240, 0),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
	)
	panel.AddChild(widget.NewText(
		widget.TextOpts.Text("Paused", face, white),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	))
	panel.AddChild(widget.NewButton(
		widget.ButtonOpts.Image(btnImg),
		widget.ButtonOpts.Text("Resume", face, btnText),
		widget.ButtonOpts.WidgetOpts(center),
		widget.ButtonOpts.ClickedHandler(func(*widget.ButtonClickedEventArgs) {
			if o.OnResume != nil {
				o.OnResume()
			}
		}),
	))
	panel.AddChild(widget.NewButton(
		widget.ButtonOpts.Image(btnImg),
		widget.ButtonOpts.Text("New game", face, btnText),
		widget.ButtonOpts.WidgetOpts(center),
		widget.ButtonOpts.ClickedHandler(func(*widget.ButtonClickedEventArgs) {
			if o.OnNewGame != nil {
				o.OnNewGame()
			}
		}),
	))
	panel.AddChild(widget.NewText(
		widget.TextOpts.Text("Esc to resume", face, color.NRGBA{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff}),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	))
	return panel
}

// Reset clears per-level state.
func (o *Overlay) Reset() {
	o.SetMenuActive(false)
	o.info = lifecycle.LevelInfo{}
	o.banner = ""
	o.bannerAlpha = 0
	if o.hud != nil {
		o.hud.Label = ""
	}
}

// Bind shows the new level's name and starts the entry banner.
func (o *Overlay) Bind(info lifecycle.LevelInfo) {
	o.info = info
	if o.hud != nil {
		o.hud.Label = fmt.Sprintf("%s  %d tris", info.Map, info.Triangles)
	}
	o.banner = "Entering " + info.Map
	o.bannerAlpha = 1
	if o.tweens != nil {
		o.tweens.Add(tween.New(1, 0, bannerFrames, func(v float64) {
			o.bannerAlpha = v
		}))
	}
}

func (o *Overlay) Info() lifecycle.LevelInfo {
	return o.info
}

// BannerAlpha is the current opacity of the entry banner.
func (o *Overlay) BannerAlpha() float64 {
	return o.bannerAlpha
}

func (o *Overlay) Show() { o.visible = true }
func (o *Overlay) Hide() { o.visible = false }

func (o *Overlay) Visible() bool {
	return o.visible
}

func (o *Overlay) SetMenuActive(active bool) {
	o.menuActive = active
	if o.menu == nil {
		return
	}
	if active {
		o.menu.GetWidget().Visibility = widget.Visibility_Show
	} else {
		o.menu.GetWidget().Visibility = widget.Visibility_Hide
	}
}

func (o *Overlay) MenuActive() bool {
	return o.menuActive
}

func (o *Overlay) Update() {
	if o.ui == nil || !o.visible {
		return
	}
	o.ui.Update()
}

func (o *Overlay) OnResize(width, height int) {
	o.width, o.height = width, height
	if o.ui != nil {
		o.ui.Container.RequestRelayout()
	}
}

func (o *Overlay) Draw(screen *ebiten.Image) {
	if o.ui == nil || !o.visible {
		return
	}
	o.ui.Draw(screen)

	if o.banner == "" || o.bannerAlpha <= 0 || o.menuActive {
		return
	}
	w, _ := text.Measure(o.banner, o.face, 0)
	op := &text.DrawOptions{}
	op.GeoM.Scale(2, 2)
	op.GeoM.Translate(float64(screen.Bounds().Dx())/2-w, float64(screen.Bounds().Dy())/4)
	op.ColorScale.ScaleAlpha(float32(o.bannerAlpha))
	text.Draw(screen, o.banner, o.face, op)
}
