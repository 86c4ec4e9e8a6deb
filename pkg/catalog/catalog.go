// Package catalog loads many deck files at once for listing.
package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Dicklesworthstone/deck_viewer/pkg/deck"
)

// LoadResult contains the result of loading a single deck file
type LoadResult struct {
	// Path is the deck file as given or discovered
	Path string

	// Deck is the parsed deck; nil when Error is set
	Deck *deck.Deck

	// Error is set if loading failed
	Error error
}

// Loader loads deck files in parallel.
type Loader struct {
	load   func(string) (*deck.Deck, error)
	limit  int
	logger *zap.Logger
}

// NewLoader creates a loader using deck.Load.
func NewLoader() *Loader {
	return &Loader{
		load:   deck.Load,
		limit:  8,
		logger: zap.NewNop(),
	}
}

// SetLogger sets a custom logger for error reporting
func (l *Loader) SetLogger(logger *zap.Logger) {
	if logger != nil {
		l.logger = logger
	}
}

// SetLimit caps the number of files parsed at once.
func (l *Loader) SetLimit(n int) {
	if n > 0 {
		l.limit = n
	}
}

// Discover expands paths: files are kept as given, directories are walked
// for deck files, skipping hidden entries. The result is sorted and free of
// duplicates.
func Discover(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			hidden := path != p && len(d.Name()) > 1 && d.Name()[0] == '.'
			if d.IsDir() {
				if hidden {
					return filepath.SkipDir
				}
				return nil
			}
			// Dot-files such as .dv.yml are config, not decks.
			if !hidden && deck.IsDeckFile(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
	}

	sort.Strings(out)
	return out, nil
}

// LoadAll loads every path. Individual failures are recorded in the
// results, logged, and do not stop the other loads. Results keep the order
// of paths.
func (l *Loader) LoadAll(ctx context.Context, paths []string) ([]LoadResult, error) {
	results := make([]LoadResult, len(paths))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.limit)

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				mu.Lock()
				results[i] = LoadResult{Path: path, Error: gctx.Err()}
				mu.Unlock()
				return nil // Don't propagate context errors as fatal
			default:
			}

			d, err := l.load(path)

			mu.Lock()
			results[i] = LoadResult{Path: path, Deck: d, Error: err}
			mu.Unlock()

			return nil // Individual deck errors are captured in results, not propagated
		})
	}

	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("fatal error during parallel loading: %w", err)
	}

	for _, r := range results {
		if r.Error != nil {
			l.logger.Warn("failed to load deck", zap.String("path", r.Path), zap.Error(r.Error))
		}
	}
	return results, nil
}

// LoadSummary summarises a LoadAll call.
type LoadSummary struct {
	TotalDecks      int
	SuccessfulDecks int
	FailedDecks     int
	TotalSlides     int
	FailedPaths     []string
}

// Summarize returns a summary of the load results
func Summarize(results []LoadResult) LoadSummary {
	summary := LoadSummary{
		TotalDecks: len(results),
	}

	for _, result := range results {
		if result.Error != nil {
			summary.FailedDecks++
			summary.FailedPaths = append(summary.FailedPaths, result.Path)
		} else {
			summary.SuccessfulDecks++
			summary.TotalSlides += result.Deck.Len()
		}
	}

	return summary
}
