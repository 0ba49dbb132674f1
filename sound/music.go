package sound

import (
	"strings"

	"github.com/milk9111/airstrip/assets"
	"go.uber.org/zap"
)

const (
	defaultMusicVolume     = 1.0
	defaultMusicFadeFrames = 30
)

// Music plays one looping track at a time. Switching tracks fades the
// current one out over FadeFrames before the next starts.
type Music struct {
	newVoice voiceFactory
	log      *zap.Logger

	tracks map[string]*assets.Sound
	voices map[string]voice

	Volume     float64
	FadeFrames int

	current       string
	currentVolume float64
	pending       string
	pendingActive bool
	fadeStep      float64
}

func NewMusic(logger *zap.Logger) *Music {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Music{
		log:        logger.Named("music"),
		Volume:     defaultMusicVolume,
		FadeFrames: defaultMusicFadeFrames,
	}
}

// Init opens the audio device.
func (m *Music) Init() {
	if m.newVoice == nil {
		m.newVoice = ebitenVoices()
	}
}

// InitTracks replaces the track set. The current track keeps playing if it
// is still present.
func (m *Music) InitTracks(tracks map[string]*assets.Sound) {
	if m.voices == nil {
		m.voices = map[string]voice{}
	}
	for name, v := range m.voices {
		if _, ok := tracks[name]; ok {
			continue
		}
		v.Pause()
		delete(m.voices, name)
		if name == m.current {
			m.current = ""
			m.currentVolume = 0
		}
	}
	m.tracks = tracks
}

// Current returns the playing track name.
func (m *Music) Current() string {
	return m.current
}

// PlayTrack requests name. Requesting the current track only restores its
// volume; an empty name fades out.
func (m *Music) PlayTrack(name string) {
	name = strings.TrimSpace(name)
	if name != "" && name == m.current && !m.pendingActive {
		if v := m.voices[name]; v != nil {
			m.currentVolume = m.Volume
			v.SetVolume(m.currentVolume)
			if !v.IsPlaying() {
				v.Play()
			}
			return
		}
	}

	m.pending = name
	m.pendingActive = true
	if m.voices[m.current] == nil {
		m.switchToPending()
		return
	}
	frames := m.FadeFrames
	if frames <= 0 {
		frames = defaultMusicFadeFrames
	}
	m.fadeStep = m.currentVolume / float64(frames)
	if m.fadeStep <= 0 {
		m.fadeStep = 1
	}
}

// Update advances a running fade by one frame.
func (m *Music) Update() {
	if !m.pendingActive {
		return
	}
	cur := m.voices[m.current]
	if cur == nil {
		m.switchToPending()
		return
	}
	m.currentVolume -= m.fadeStep
	if m.currentVolume > 0 {
		cur.SetVolume(m.currentVolume)
		return
	}
	m.currentVolume = 0
	cur.SetVolume(0)
	cur.Pause()
	_ = cur.Rewind()
	m.current = ""
	m.switchToPending()
}

func (m *Music) switchToPending() {
	name := m.pending
	m.pending = ""
	m.pendingActive = false
	m.fadeStep = 0
	m.current = ""
	m.currentVolume = 0
	if name == "" {
		return
	}

	v, err := m.voiceFor(name)
	if err != nil {
		m.log.Warn("track unavailable", zap.String("track", name), zap.Error(err))
		return
	}
	m.current = name
	m.currentVolume = m.Volume
	_ = v.Rewind()
	v.SetVolume(m.currentVolume)
	v.Play()
}

func (m *Music) voiceFor(name string) (voice, error) {
	if v, ok := m.voices[name]; ok {
		return v, nil
	}
	snd, ok := m.tracks[name]
	if !ok {
		return nil, errUnknownTrack
	}
	if m.newVoice == nil {
		return nil, errNoDevice
	}
	v, err := m.newVoice(snd.PCM, true)
	if err != nil {
		return nil, err
	}
	if m.voices == nil {
		m.voices = map[string]voice{}
	}
	m.voices[name] = v
	return v, nil
}
