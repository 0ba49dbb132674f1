package tween

import (
	"math"
	"testing"
)

func TestTickerRunsTweenToCompletion(t *testing.T) {
	ticker := NewTicker()
	var got []float64
	done := 0
	tw := New(0, 10, 4, func(v float64) { got = append(got, v) })
	tw.Done = func() { done++ }
	ticker.Add(tw)

	for i := 0; i < 6; i++ {
		ticker.TickAll()
	}

	want := []float64{2.5, 5, 7.5, 10}
	if len(got) != len(want) {
		t.Fatalf("expected %d applied values, got %v", len(want), got)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("step %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if done != 1 {
		t.Fatalf("Done should run exactly once, ran %d", done)
	}
	if ticker.Len() != 0 {
		t.Fatalf("finished tween should be dropped")
	}
}

func TestCancelAllSkipsDone(t *testing.T) {
	ticker := NewTicker()
	done := false
	tw := New(1, 0, 10, nil)
	tw.Done = func() { done = true }
	ticker.Add(tw)
	ticker.TickAll()
	ticker.CancelAll()
	ticker.TickAll()

	if ticker.Len() != 0 {
		t.Fatalf("expected no tweens after CancelAll, got %d", ticker.Len())
	}
	if done || tw.Finished() {
		t.Fatalf("cancelled tween should not finish")
	}
}

func TestEases(t *testing.T) {
	cases := []struct {
		name string
		ease Ease
	}{
		{"linear", Linear},
		{"out_quad", OutQuad},
		{"in_out_quad", InOutQuad},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if c.ease(0) != 0 || c.ease(1) != 1 {
				t.Fatalf("ease should map 0->0 and 1->1, got %v %v", c.ease(0), c.ease(1))
			}
		})
	}
}

func TestZeroFrameTweenFinishesOnFirstTick(t *testing.T) {
	ticker := NewTicker()
	var last float64
	ticker.Add(New(3, 7, 0, func(v float64) { last = v }))
	ticker.TickAll()
	if last != 7 || ticker.Len() != 0 {
		t.Fatalf("expected immediate finish at 7, got last=%v len=%d", last, ticker.Len())
	}
}
