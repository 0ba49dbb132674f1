package input

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// KeySource reports whether a key is physically held this frame.
type KeySource func(key ebiten.Key) bool

// DefaultKeys are the keys polled by the game.
var DefaultKeys = []ebiten.Key{
	ebiten.KeyEscape,
	ebiten.KeyW, ebiten.KeyA, ebiten.KeyS, ebiten.KeyD,
	ebiten.KeyArrowUp, ebiten.KeyArrowDown, ebiten.KeyArrowLeft, ebiten.KeyArrowRight,
	ebiten.KeyShiftLeft,
}

// Poller samples a fixed key set once per frame and keeps the previous
// sample so presses can be reported on their down edge only.
type Poller struct {
	source KeySource
	keys   []ebiten.Key

	cur  map[ebiten.Key]bool
	prev map[ebiten.Key]bool
}

// NewPoller polls keys from ebiten. With no keys, DefaultKeys are used.
func NewPoller(keys ...ebiten.Key) *Poller {
	return NewPollerWithSource(ebiten.IsKeyPressed, keys...)
}

func NewPollerWithSource(source KeySource, keys ...ebiten.Key) *Poller {
	if len(keys) == 0 {
		keys = DefaultKeys
	}
	return &Poller{
		source: source,
		keys:   append([]ebiten.Key(nil), keys...),
		cur:    make(map[ebiten.Key]bool, len(keys)),
		prev:   make(map[ebiten.Key]bool, len(keys)),
	}
}

// PollKeys takes this frame's sample. Call once per frame before queries.
func (p *Poller) PollKeys() {
	if p == nil || p.source == nil {
		return
	}
	p.prev, p.cur = p.cur, p.prev
	for _, k := range p.keys {
		p.cur[k] = p.source(k)
	}
}

// IsKeyDown reports whether key is held in the current sample.
func (p *Poller) IsKeyDown(key ebiten.Key) bool {
	if p == nil {
		return false
	}
	return p.cur[key]
}

// IsKeyDownEdge reports whether key went down between the previous and the
// current sample. A held key reports true only on its first frame.
func (p *Poller) IsKeyDownEdge(key ebiten.Key) bool {
	if p == nil {
		return false
	}
	return p.cur[key] && !p.prev[key]
}

// Reset forgets both samples. Keys held across a reset do not produce an
// edge until they are released and pressed again.
func (p *Poller) Reset() {
	if p == nil {
		return
	}
	for _, k := range p.keys {
		held := p.source != nil && p.source(k)
		p.cur[k] = held
		p.prev[k] = held
	}
}
