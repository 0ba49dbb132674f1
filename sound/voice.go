package sound

import (
	"bytes"
	"errors"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/airstrip/assets"
)

var (
	errUnknownTrack = errors.New("sound: unknown track")
	errNoDevice     = errors.New("sound: audio not initialized")
)

// voice is the subset of *audio.Player the mixers drive.
type voice interface {
	Play()
	Pause()
	Rewind() error
	IsPlaying() bool
	SetVolume(v float64)
}

// voiceFactory creates a voice over decoded PCM.
type voiceFactory func(pcm []byte, loop bool) (voice, error)

func audioContext() *audio.Context {
	if ctx := audio.CurrentContext(); ctx != nil {
		return ctx
	}
	return audio.NewContext(assets.SampleRate)
}

func ebitenVoices() voiceFactory {
	ctx := audioContext()
	return func(pcm []byte, loop bool) (voice, error) {
		if !loop {
			return ctx.NewPlayerFromBytes(pcm), nil
		}
		stream := audio.NewInfiniteLoop(bytes.NewReader(pcm), int64(len(pcm)))
		return ctx.NewPlayer(stream)
	}
}
