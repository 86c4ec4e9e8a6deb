// Package watch reloads a deck file when it changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Dicklesworthstone/deck_viewer/pkg/deck"
)

// DefaultDebounce batches the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the watcher logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithLoader replaces deck.Load.
func WithLoader(load func(string) (*deck.Deck, error)) Option {
	return func(w *Watcher) {
		if load != nil {
			w.load = load
		}
	}
}

// Watcher watches one deck file. The parent directory is watched so that
// editors which save by renaming a temp file over the deck are seen.
type Watcher struct {
	path     string
	debounce time.Duration
	load     func(string) (*deck.Deck, error)
	logger   *zap.Logger

	fw        *fsnotify.Watcher
	closeOnce sync.Once
}

// New starts watching path. Events are delivered once Run is called.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		load:     deck.Load,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	w.fw = fw
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Close releases the underlying watcher. Run calls it on return.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() { err = w.fw.Close() })
	return err
}

// Run delivers each successfully parsed revision of the file to onReload
// until ctx is done. A revision that fails to parse is logged and skipped;
// the previous deck stays mounted.
func (w *Watcher) Run(ctx context.Context, onReload func(*deck.Deck)) error {
	defer w.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	w.logger.Info("watching deck", zap.String("path", w.path))
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.logger.Debug("deck file event", zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			d, err := w.load(w.path)
			if err != nil {
				w.logger.Warn("deck reload failed", zap.String("path", w.path), zap.Error(err))
				continue
			}
			w.logger.Info("deck reloaded", zap.String("path", w.path), zap.Int("slides", d.Len()))
			onReload(d)
		}
	}
}
