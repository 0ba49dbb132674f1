package console

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/milk9111/airstrip/assets"
	"github.com/milk9111/airstrip/lifecycle"
	"github.com/zeebo/xxh3"
	"go.uber.org/zap"
)

const watchDebounce = 100 * time.Millisecond

// MapWatcher reloads the selected map when its file changes on disk.
type MapWatcher struct {
	watcher *fsnotify.Watcher
	reg     *Registry
	bundle  func() *assets.Bundle
	current func() string
	log     *zap.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	fire    chan string
	done    chan struct{}
	once    sync.Once
	closeEr error
}

// WatchMaps watches dir for map files. bundle and current are only called
// on the frame goroutine.
func WatchMaps(dir string, reg *Registry, bundle func() *assets.Bundle, current func() string, logger *zap.Logger) (*MapWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &MapWatcher{
		watcher: fw,
		reg:     reg,
		bundle:  bundle,
		current: current,
		log:     logger.Named("watch"),
		ctx:     ctx,
		cancel:  cancel,
		fire:    make(chan string),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *MapWatcher) Close() error {
	w.once.Do(func() {
		w.cancel()
		w.closeEr = w.watcher.Close()
		<-w.done
	})
	return w.closeEr
}

// run reads a file only once it has been quiet for watchDebounce, so a save
// that truncates and then writes is read whole.
func (w *MapWatcher) run() {
	defer close(w.done)
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 || !isMapFile(event.Name) {
				continue
			}
			if t, ok := timers[event.Name]; ok {
				t.Reset(watchDebounce)
				continue
			}
			name := event.Name
			timers[name] = time.AfterFunc(watchDebounce, func() {
				select {
				case w.fire <- name:
				case <-w.ctx.Done():
				}
			})
		case path := <-w.fire:
			delete(timers, path)
			w.changed(path)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *MapWatcher) changed(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		w.log.Debug("map unreadable", zap.String("file", path), zap.Error(err))
		return
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	hash := xxh3.Hash(data)

	out, err := w.reg.Do(w.ctx, func(cmds lifecycle.Commands) (string, error) {
		return w.apply(cmds, name, data, hash)
	})
	if err != nil {
		w.log.Warn("map reload", zap.String("map", name), zap.Error(err))
		return
	}
	if out != "" {
		w.log.Info(out, zap.String("map", name))
	}
}

// apply runs on the frame goroutine.
func (w *MapWatcher) apply(cmds lifecycle.Commands, name string, data []byte, hash uint64) (string, error) {
	b := w.bundle()
	if b == nil {
		return "", nil
	}
	if old, ok := b.MapHashes[name]; ok && old == hash {
		return "", nil
	}
	b.Maps[name] = data
	b.MapHashes[name] = hash
	if w.current() != name {
		return "map updated", nil
	}
	if err := cmds.LoadMap(name); err != nil {
		return "", err
	}
	return "map reloaded", nil
}

func isMapFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
