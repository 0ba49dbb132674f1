package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/zeebo/xxh3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// SampleRate is the rate every sound and track is decoded to.
const SampleRate = 44100

type Kind int

const (
	KindMap Kind = iota
	KindSound
	KindTrack
	KindModel
)

func (k Kind) String() string {
	switch k {
	case KindMap:
		return "map"
	case KindSound:
		return "sound"
	case KindTrack:
		return "track"
	case KindModel:
		return "model"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var kindDirs = []struct {
	kind Kind
	dir  string
	ext  string
}{
	{KindMap, "maps", ".json"},
	{KindSound, "sounds", ".wav"},
	{KindTrack, "tracks", ".wav"},
	{KindModel, "models", ".obj"},
}

// Sound is decoded 16-bit stereo PCM at SampleRate.
type Sound struct {
	Name string
	PCM  []byte
}

// Bundle is the full set of loaded assets keyed by base name.
type Bundle struct {
	Maps      map[string][]byte
	MapHashes map[string]uint64
	Sounds    map[string]*Sound
	Tracks    map[string]*Sound
	Models    map[string]*Model
}

func newBundle() *Bundle {
	return &Bundle{
		Maps:      map[string][]byte{},
		MapHashes: map[string]uint64{},
		Sounds:    map[string]*Sound{},
		Tracks:    map[string]*Sound{},
		Models:    map[string]*Model{},
	}
}

// Progress counts loaded files against the total for one load.
type Progress struct {
	Loaded int
	Total  int
}

func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 1
	}
	return float64(p.Loaded) / float64(p.Total)
}

// Event is emitted by a running load. Gen is the generation passed to
// StartLoad. Done events carry the bundle and any decode errors.
type Event struct {
	Gen      uint64
	Progress Progress
	Done     bool
	Bundle   *Bundle
	Err      error
}

// Loader is the bulk asset loader. A load runs on its own goroutine and
// reports through Events; results stay resident for later loads.
type Loader struct {
	src    Source
	log    *zap.Logger
	events chan Event

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	bundle  *Bundle
	running bool
}

func NewLoader(src Source, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		src:    src,
		log:    logger.Named("assets"),
		events: make(chan Event, 64),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Events is the channel the frame loop drains.
func (l *Loader) Events() <-chan Event {
	return l.events
}

// IsLoaded reports whether a completed bundle is resident.
func (l *Loader) IsLoaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bundle != nil
}

// Bundle returns the resident bundle, or nil.
func (l *Loader) Bundle() *Bundle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bundle
}

// StartLoad begins loading every asset. Callers must not start a load while
// one is running.
func (l *Loader) StartLoad(gen uint64) {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		panic("assets: StartLoad while a load is running")
	}
	l.running = true
	l.mu.Unlock()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.run(gen)
	}()
}

// Close stops a running load and waits for it to exit.
func (l *Loader) Close() error {
	l.cancel()
	l.wg.Wait()
	return nil
}

type pendingFile struct {
	kind Kind
	name string
}

func (l *Loader) run(gen uint64) {
	var files []pendingFile
	var errs error
	for _, kd := range kindDirs {
		names, err := l.src.List(kd.dir)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("assets: list %s: %w", kd.dir, err))
			continue
		}
		for _, name := range names {
			if strings.EqualFold(path.Ext(name), kd.ext) {
				files = append(files, pendingFile{kind: kd.kind, name: name})
			}
		}
	}

	bundle := newBundle()
	progress := Progress{Total: len(files)}
	for _, f := range files {
		if l.ctx.Err() != nil {
			l.markIdle()
			return
		}
		if err := l.loadFile(bundle, f); err != nil {
			l.log.Warn("asset failed", zap.Stringer("kind", f.kind), zap.String("file", f.name), zap.Error(err))
			errs = multierr.Append(errs, err)
		}
		progress.Loaded++
		l.emitProgress(Event{Gen: gen, Progress: progress})
	}

	l.mu.Lock()
	l.bundle = bundle
	l.running = false
	l.mu.Unlock()

	select {
	case l.events <- Event{Gen: gen, Progress: progress, Done: true, Bundle: bundle, Err: errs}:
	case <-l.ctx.Done():
	}
}

func (l *Loader) markIdle() {
	l.mu.Lock()
	l.running = false
	l.mu.Unlock()
}

// emitProgress never blocks the load; a dropped progress event is replaced
// by the next one.
func (l *Loader) emitProgress(ev Event) {
	select {
	case l.events <- ev:
	default:
	}
}

func (l *Loader) loadFile(b *Bundle, f pendingFile) error {
	data, err := l.src.ReadFile(f.name)
	if err != nil {
		return fmt.Errorf("assets: read %s: %w", f.name, err)
	}
	name := baseName(f.name)

	switch f.kind {
	case KindMap:
		b.Maps[name] = data
		b.MapHashes[name] = xxh3.Hash(data)
	case KindSound, KindTrack:
		snd, err := decodeWAV(name, data)
		if err != nil {
			return fmt.Errorf("assets: decode %s: %w", f.name, err)
		}
		if f.kind == KindSound {
			b.Sounds[name] = snd
		} else {
			b.Tracks[name] = snd
		}
	case KindModel:
		m, err := ParseModel(name, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("assets: decode %s: %w", f.name, err)
		}
		b.Models[name] = m
	}
	return nil
}

func decodeWAV(name string, data []byte) (*Sound, error) {
	stream, err := wav.DecodeWithSampleRate(SampleRate, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, err
	}
	return &Sound{Name: name, PCM: pcm}, nil
}

func baseName(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}
