package sound

import (
	"testing"

	"github.com/milk9111/airstrip/assets"
)

type fakeVoice struct {
	playing bool
	volume  float64
	plays   int
	rewinds int
	loop    bool
}

func (v *fakeVoice) Play() {
	v.playing = true
	v.plays++
}

func (v *fakeVoice) Rewind() error {
	v.rewinds++
	return nil
}

func (v *fakeVoice) Pause()              { v.playing = false }
func (v *fakeVoice) IsPlaying() bool     { return v.playing }
func (v *fakeVoice) SetVolume(f float64) { v.volume = f }

type voices map[string]*fakeVoice

func (vs voices) factory() voiceFactory {
	return func(pcm []byte, loop bool) (voice, error) {
		v := &fakeVoice{loop: loop}
		vs[string(pcm)] = v
		return v, nil
	}
}

func sounds(names ...string) map[string]*assets.Sound {
	out := map[string]*assets.Sound{}
	for _, n := range names {
		out[n] = &assets.Sound{Name: n, PCM: []byte(n)}
	}
	return out
}

func TestMusicFadesBetweenTracks(t *testing.T) {
	vs := voices{}
	m := NewMusic(nil)
	m.newVoice = vs.factory()
	m.FadeFrames = 4
	m.InitTracks(sounds("a", "b"))

	m.PlayTrack("a")
	a := vs["a"]
	if m.Current() != "a" || !a.playing || a.volume != 1 || !a.loop {
		t.Fatalf("first track should start immediately at full volume, got %+v", a)
	}

	m.PlayTrack("b")
	if vs["b"] != nil {
		t.Fatalf("next track should wait for the fade")
	}
	for i := 0; i < 3; i++ {
		m.Update()
	}
	if a.volume <= 0 || a.volume >= 1 || !a.playing {
		t.Fatalf("expected a mid-fade volume, got %v", a.volume)
	}
	m.Update()
	if a.playing || m.Current() != "b" || !vs["b"].playing {
		t.Fatalf("expected switch to b after the fade, current %q", m.Current())
	}
}

func TestMusicSameTrackRestoresVolume(t *testing.T) {
	vs := voices{}
	m := NewMusic(nil)
	m.newVoice = vs.factory()
	m.InitTracks(sounds("a"))
	m.PlayTrack("a")
	vs["a"].volume = 0.2
	vs["a"].playing = false

	m.PlayTrack("a")
	if vs["a"].volume != 1 || !vs["a"].playing || vs["a"].plays != 2 {
		t.Fatalf("replaying the current track should restore it, got %+v", vs["a"])
	}
}

func TestMusicUnknownTrackIsSilent(t *testing.T) {
	m := NewMusic(nil)
	m.newVoice = voices{}.factory()
	m.InitTracks(sounds("a"))
	m.PlayTrack("missing")
	if m.Current() != "" {
		t.Fatalf("unknown track should not play, got %q", m.Current())
	}
}

func TestMusicDropsRemovedTracks(t *testing.T) {
	vs := voices{}
	m := NewMusic(nil)
	m.newVoice = vs.factory()
	m.InitTracks(sounds("a"))
	m.PlayTrack("a")

	m.InitTracks(sounds("b"))
	if vs["a"].playing || m.Current() != "" {
		t.Fatalf("removed track should stop")
	}
}

func TestEffectsRestartOnReplay(t *testing.T) {
	vs := voices{}
	e := NewEffects(nil)
	e.newVoice = vs.factory()
	e.InitSounds(sounds("step"))

	e.Play("step")
	e.Play("step")
	e.Play("nothing")
	v := vs["step"]
	if v.plays != 2 || v.rewinds != 2 || v.loop {
		t.Fatalf("expected two one-shot plays, got %+v", v)
	}
	if len(vs) != 1 {
		t.Fatalf("voices should be reused, got %d", len(vs))
	}
}

func TestEffectsIgnoredBeforeInit(t *testing.T) {
	e := NewEffects(nil)
	e.InitSounds(sounds("step"))
	e.Play("step")

	var nilEffects *Effects
	nilEffects.Play("step")
}
