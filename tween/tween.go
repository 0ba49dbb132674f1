package tween

// Ease maps linear progress in [0, 1] to eased progress.
type Ease func(t float64) float64

func Linear(t float64) float64 { return t }

func OutQuad(t float64) float64 { return t * (2 - t) }

func InOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

// Tween interpolates From to To over Frames ticks and hands each value to
// Apply. Done runs once after the final value is applied.
type Tween struct {
	From   float64
	To     float64
	Frames int
	Ease   Ease
	Apply  func(v float64)
	Done   func()

	elapsed  int
	finished bool
}

// New creates a tween with linear easing.
func New(from, to float64, frames int, apply func(v float64)) *Tween {
	return &Tween{From: from, To: to, Frames: frames, Ease: Linear, Apply: apply}
}

// Value returns the current interpolated value.
func (tw *Tween) Value() float64 {
	if tw.Frames <= 0 {
		return tw.To
	}
	p := float64(tw.elapsed) / float64(tw.Frames)
	if p > 1 {
		p = 1
	}
	ease := tw.Ease
	if ease == nil {
		ease = Linear
	}
	return tw.From + (tw.To-tw.From)*ease(p)
}

// Finished reports whether the tween has applied its final value.
func (tw *Tween) Finished() bool {
	return tw.finished
}

func (tw *Tween) step() {
	if tw.finished {
		return
	}
	tw.elapsed++
	if tw.Apply != nil {
		tw.Apply(tw.Value())
	}
	if tw.elapsed >= tw.Frames {
		tw.finished = true
		if tw.Done != nil {
			tw.Done()
		}
	}
}

// Ticker owns the running tweens. It is ticked once per Play frame.
type Ticker struct {
	tweens []*Tween
}

func NewTicker() *Ticker {
	return &Ticker{}
}

// Add starts tw on the next TickAll.
func (t *Ticker) Add(tw *Tween) *Tween {
	if t == nil || tw == nil {
		return tw
	}
	t.tweens = append(t.tweens, tw)
	return tw
}

// TickAll advances every running tween by one frame and drops finished ones.
func (t *Ticker) TickAll() {
	if t == nil || len(t.tweens) == 0 {
		return
	}
	running := t.tweens[:0]
	for _, tw := range t.tweens {
		tw.step()
		if !tw.finished {
			running = append(running, tw)
		}
	}
	for i := len(running); i < len(t.tweens); i++ {
		t.tweens[i] = nil
	}
	t.tweens = running
}

// CancelAll drops every tween without applying final values or running Done.
func (t *Ticker) CancelAll() {
	if t == nil {
		return
	}
	t.tweens = nil
}

// Len returns the number of running tweens.
func (t *Ticker) Len() int {
	if t == nil {
		return 0
	}
	return len(t.tweens)
}
