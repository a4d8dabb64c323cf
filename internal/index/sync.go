package index

import (
	"log/slog"
	"strings"
	"time"

	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/record"
	"github.com/starford/ansuz/internal/storage"
)

// Sync walks the archive and brings the index up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the index
//
// Files that fail to decode are skipped with a warning, matching the
// batch loader's per-file error policy.
func Sync(db *DB, store storage.Provider, p *parser.Parser, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexFile(db, p, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for path := range checksums {
		if _, ok := disk[path]; !ok {
			if err := db.DeleteRecordByPath(path); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", path), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", path))
			}
		}
	}

	return nil
}

// indexFile decodes data and upserts the resulting record into the DB.
func indexFile(db *DB, p *parser.Parser, path string, data []byte) error {
	rec, err := p.Parse(path, string(data))
	if err != nil {
		return err
	}
	return db.UpsertRecord(RowFromRecord(rec, checksum.Sum(data)), rec.BodyText, RelatedIDs(rec))
}

// RowFromRecord flattens a decoded record into its table row.
func RowFromRecord(rec *record.Record, cs string) RecordRow {
	created := ""
	if rec.Meta.Created != nil {
		created = rec.Meta.Created.String()
	}
	tags := rec.Meta.Tags
	if tags == nil {
		tags = []string{}
	}
	return RecordRow{
		ID:        rec.ID,
		Path:      rec.Path,
		Filename:  rec.Filename,
		Title:     rec.Title(),
		Status:    rec.Status().String(),
		Category:  rec.Meta.Category,
		Author:    rec.Meta.Author,
		Project:   rec.Meta.Project,
		Created:   created,
		Tags:      tags,
		Checksum:  cs,
		UpdatedAt: time.Now(),
	}
}

// RelatedIDs normalizes the record's related references to target IDs,
// stripping the optional .md extension.
func RelatedIDs(rec *record.Record) []string {
	out := make([]string, 0, len(rec.Meta.Related))
	for _, ref := range rec.Meta.Related {
		out = append(out, strings.TrimSuffix(ref, ".md"))
	}
	return out
}
