// Package recordservice coordinates the loaded record snapshot, the
// SQLite index, and the validation engine for the serving layer.
package recordservice

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/archive"
	"github.com/starford/ansuz/internal/facets"
	"github.com/starford/ansuz/internal/graph"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/record"
	"github.com/starford/ansuz/internal/stats"
	"github.com/starford/ansuz/internal/validate"
)

// RecordDetail is the full representation of one record, enriched with
// the IDs of records that declare a relationship to it.
type RecordDetail struct {
	*record.Record
	RelatedFrom []string `json:"related_from"`
}

// Service serves read operations over the current record snapshot.
// Aggregations (graph, facets, statistics) are computed from the
// snapshot on demand; full-text search delegates to the SQLite index.
type Service struct {
	db     *index.DB
	loader *archive.Loader
	engine *validate.Engine
	logger *slog.Logger

	dir     string
	pattern string

	mu      sync.RWMutex
	records []*record.Record
	byID    map[string]*record.Record
}

// NewService creates a record service reading from dir with pattern.
func NewService(db *index.DB, loader *archive.Loader, engine *validate.Engine, logger *slog.Logger, dir, pattern string) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:      db,
		loader:  loader,
		engine:  engine,
		logger:  logger,
		dir:     dir,
		pattern: pattern,
		byID:    map[string]*record.Record{},
	}
}

// Reload rebuilds the in-memory snapshot from storage. An archive with
// no matching files yields an empty snapshot rather than an error, so a
// running server survives the last record being deleted.
func (s *Service) Reload(ctx context.Context) error {
	res, err := s.loader.Load(ctx, s.dir, s.pattern)
	if err != nil {
		if errors.Is(err, apperr.ErrEmptyArchive) {
			s.setSnapshot(nil)
			return nil
		}
		return err
	}
	res.LogErrors(s.logger)
	s.setSnapshot(res.Records)
	return nil
}

func (s *Service) setSnapshot(records []*record.Record) {
	byID := make(map[string]*record.Record, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}
	s.mu.Lock()
	s.records = records
	s.byID = byID
	s.mu.Unlock()
}

// Records returns the current snapshot, sorted by ID.
func (s *Service) Records(_ context.Context) []*record.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*record.Record, len(s.records))
	copy(out, s.records)
	return out
}

// GetRecord returns one record by ID with its incoming relationships.
func (s *Service) GetRecord(_ context.Context, id string) (*RecordDetail, error) {
	s.mu.RLock()
	rec, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return nil, apperr.ErrNotFound
	}

	from, err := s.db.RelatedTo(id)
	if err != nil {
		return nil, err
	}
	if from == nil {
		from = []string{}
	}
	return &RecordDetail{Record: rec, RelatedFrom: from}, nil
}

// ListRecords returns paginated index rows with optional filters.
func (s *Service) ListRecords(_ context.Context, limit, offset int, status, category, tag string) ([]index.RecordRow, int, error) {
	return s.db.ListRecords(limit, offset, status, category, tag)
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// Graph builds the relationship graph from the snapshot.
func (s *Service) Graph(_ context.Context) *graph.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return graph.Build(s.records)
}

// Facets computes facet aggregations from the snapshot.
func (s *Service) Facets(_ context.Context) *facets.Facets {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return facets.Compute(s.records)
}

// Stats computes corpus statistics from the snapshot.
func (s *Service) Stats(_ context.Context) *stats.Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return stats.Compute(s.records)
}

// ValidateAll runs the rule engine over every record in the snapshot.
func (s *Service) ValidateAll(_ context.Context) *validate.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.ValidateAll(s.records)
}

// ValidateRecord runs the rule engine over one record.
func (s *Service) ValidateRecord(_ context.Context, id string) ([]validate.Issue, error) {
	s.mu.RLock()
	rec, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return nil, apperr.ErrNotFound
	}
	issues := s.engine.Validate(rec).Issues()
	if issues == nil {
		issues = []validate.Issue{}
	}
	return issues, nil
}
