package index

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// RecordRow represents a row in the records table.
type RecordRow struct {
	ID        string
	Path      string
	Filename  string
	Title     string
	Status    string
	Category  string
	Author    string
	Project   string
	Created   string // YYYY-MM-DD, empty when undated
	Tags      []string
	Checksum  string
	UpdatedAt time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// UpsertRecord inserts or replaces a record, its FTS entry, and its
// outgoing relationship edges within a transaction. related holds the
// target record IDs declared by the record.
func (db *DB) UpsertRecord(r RecordRow, body string, related []string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	tagsJSON, _ := json.Marshal(r.Tags)

	// A re-parse can change the ID for an existing path (file renamed
	// in place), so clear any previous row for this path first.
	_, _ = tx.Exec(`DELETE FROM records WHERE path = ? AND id != ?`, r.Path, r.ID)

	_, err = tx.Exec(`
		INSERT INTO records (id, path, filename, title, status, category, author, project, created, tags, checksum, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			path       = excluded.path,
			filename   = excluded.filename,
			title      = excluded.title,
			status     = excluded.status,
			category   = excluded.category,
			author     = excluded.author,
			project    = excluded.project,
			created    = excluded.created,
			tags       = excluded.tags,
			checksum   = excluded.checksum,
			body       = excluded.body,
			updated_at = excluded.updated_at
	`, r.ID, r.Path, r.Filename, r.Title, r.Status, r.Category, r.Author, r.Project,
		r.Created, string(tagsJSON), r.Checksum, body, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert record: %w", err)
	}

	// FTS upsert (no-op when the FTS5 tag is absent).
	if err := ftsUpsert(tx, r.ID, r.Title, body, r.Tags); err != nil {
		return err
	}

	// Replace edges: delete old then bulk insert.
	_, _ = tx.Exec(`DELETE FROM edges WHERE source = ?`, r.ID)
	if len(related) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO edges (source, target, type) VALUES (?, ?, 'related')`)
		if err != nil {
			return fmt.Errorf("index: prepare edge insert: %w", err)
		}
		defer stmt.Close()
		for _, target := range related {
			if _, err := stmt.Exec(r.ID, target); err != nil {
				return fmt.Errorf("index: insert edge: %w", err)
			}
		}
	}

	return tx.Commit()
}

// DeleteRecordByPath removes the record stored at path along with its
// FTS entry and outgoing edges.
func (db *DB) DeleteRecordByPath(path string) error {
	var id string
	if err := db.conn.QueryRow(`SELECT id FROM records WHERE path = ?`, path).Scan(&id); err != nil {
		return nil // nothing indexed for this path
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, id)
	_, _ = tx.Exec(`DELETE FROM edges WHERE source = ?`, id)
	_, _ = tx.Exec(`DELETE FROM records WHERE id = ?`, id)

	return tx.Commit()
}

const recordColumns = `id, path, filename, title, status, category, author, project, created, tags, checksum, updated_at`

func scanRecordRow(scan func(...any) error) (RecordRow, error) {
	var (
		r        RecordRow
		tagsJSON string
	)
	err := scan(&r.ID, &r.Path, &r.Filename, &r.Title, &r.Status, &r.Category,
		&r.Author, &r.Project, &r.Created, &tagsJSON, &r.Checksum, &r.UpdatedAt)
	if err != nil {
		return RecordRow{}, err
	}
	_ = json.Unmarshal([]byte(tagsJSON), &r.Tags)
	return r, nil
}

// GetRecord returns the indexed row for id, or nil when absent.
func (db *DB) GetRecord(id string) (*RecordRow, error) {
	row := db.conn.QueryRow(`SELECT `+recordColumns+` FROM records WHERE id = ?`, id)
	r, err := scanRecordRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("index: get record: %w", err)
	}
	return &r, nil
}

// ListRecords returns paginated rows ordered by ID, with optional
// status, category, and tag filters.
func (db *DB) ListRecords(limit, offset int, status, category, tag string) ([]RecordRow, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	where := ` WHERE 1=1`
	args := []any{}
	if status != "" {
		where += ` AND status = ?`
		args = append(args, status)
	}
	if category != "" {
		where += ` AND category = ?`
		args = append(args, category)
	}
	if tag != "" {
		// Tags are stored as a JSON array of strings.
		where += ` AND tags LIKE ?`
		args = append(args, `%"`+tag+`"%`)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM records`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count records: %w", err)
	}

	rows, err := db.conn.Query(
		`SELECT `+recordColumns+` FROM records`+where+` ORDER BY id LIMIT ? OFFSET ?`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list records: %w", err)
	}
	defer rows.Close()

	var out []RecordRow
	for rows.Next() {
		r, err := scanRecordRow(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}

// RelatedTo returns the IDs of records that declare a relationship to
// the given target.
func (db *DB) RelatedTo(target string) ([]string, error) {
	rows, err := db.conn.Query(`SELECT source FROM edges WHERE target = ? ORDER BY source`, target)
	if err != nil {
		return nil, fmt.Errorf("index: related to: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// AllChecksums returns a path to checksum map for every indexed record.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM records`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}
