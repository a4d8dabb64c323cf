// Package archive loads record batches from storage: file discovery,
// parallel decoding, and per-file error accumulation.
package archive

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/record"
	"github.com/starford/ansuz/internal/storage"
)

// decodeWorkers bounds the parallel decode fan-out. Decoding is pure
// CPU work per file, so a small fixed limit keeps memory flat.
const decodeWorkers = 8

// LoadError pairs a source path with the typed error that skipped it.
type LoadError struct {
	Path string
	Err  error
}

// Result is one loaded batch. Records are sorted by ID for stable
// output; Errors holds every skipped file. A Result with files
// discovered but zero records assembled is the caller's "empty result"
// condition to surface.
type Result struct {
	Records []*record.Record
	Errors  []LoadError
}

// Loader discovers and decodes record files.
type Loader struct {
	store  storage.Provider
	parser *parser.Parser
}

// NewLoader creates a loader reading through store and decoding with p.
// The parser is shared across parallel decodes, so its warn-once state
// spans the whole batch.
func NewLoader(store storage.Provider, p *parser.Parser) *Loader {
	return &Loader{store: store, parser: p}
}

// Load discovers files under dir matching pattern and decodes them in
// parallel. Decode failures are terminal for their file only and are
// accumulated, never retried or substituted with a default record.
// Returns apperr.ErrEmptyArchive when discovery matches nothing.
func (l *Loader) Load(ctx context.Context, dir, pattern string) (*Result, error) {
	paths, err := l.store.Glob(dir, pattern)
	if err != nil {
		return nil, fmt.Errorf("archive: discover: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("archive: %s: %w", dir, apperr.ErrEmptyArchive)
	}

	var (
		mu     sync.Mutex
		result Result
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(decodeWorkers)
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := l.loadOne(path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, LoadError{Path: path, Err: err})
				return nil
			}
			result.Records = append(result.Records, rec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(result.Records, func(i, j int) bool {
		return result.Records[i].ID < result.Records[j].ID
	})
	sort.Slice(result.Errors, func(i, j int) bool {
		return result.Errors[i].Path < result.Errors[j].Path
	})
	return &result, nil
}

func (l *Loader) loadOne(path string) (*record.Record, error) {
	data, err := l.store.Read(path)
	if err != nil {
		return nil, err
	}
	return l.parser.Parse(path, string(data))
}

// LogErrors reports every skipped file through logger at warn level.
func (r *Result) LogErrors(logger *slog.Logger) {
	for _, le := range r.Errors {
		logger.Warn("skipped record file",
			slog.String("path", le.Path),
			slog.String("error", le.Err.Error()))
	}
}
