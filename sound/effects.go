package sound

import (
	"github.com/milk9111/airstrip/assets"
	"go.uber.org/zap"
)

const defaultEffectVolume = 0.8

// Effects plays short one-shot sounds by name.
type Effects struct {
	newVoice voiceFactory
	log      *zap.Logger

	sounds map[string]*assets.Sound
	voices map[string]voice
	Volume float64
}

func NewEffects(logger *zap.Logger) *Effects {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Effects{log: logger.Named("sound"), Volume: defaultEffectVolume}
}

// Init opens the audio device.
func (e *Effects) Init() {
	if e.newVoice == nil {
		e.newVoice = ebitenVoices()
	}
}

// InitSounds replaces the playable set. Voices are built lazily.
func (e *Effects) InitSounds(sounds map[string]*assets.Sound) {
	for _, v := range e.voices {
		v.Pause()
	}
	e.sounds = sounds
	e.voices = make(map[string]voice, len(sounds))
}

// Play starts name from the beginning. Unknown names are ignored.
func (e *Effects) Play(name string) {
	if e == nil || e.newVoice == nil {
		return
	}
	v, ok := e.voices[name]
	if !ok {
		snd, found := e.sounds[name]
		if !found {
			return
		}
		var err error
		v, err = e.newVoice(snd.PCM, false)
		if err != nil {
			e.log.Warn("effect voice", zap.String("sound", name), zap.Error(err))
			return
		}
		e.voices[name] = v
	}
	if v.IsPlaying() {
		v.Pause()
	}
	_ = v.Rewind()
	v.SetVolume(e.Volume)
	v.Play()
}
