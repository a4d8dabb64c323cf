package parser

import (
	"log/slog"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/record"
)

// rawMetadata mirrors the frontmatter schema with enumerated and date
// fields kept as strings so lenient conversion happens after the YAML
// parse. Unrecognised keys are ignored by yaml.v3.
type rawMetadata struct {
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Category     string   `yaml:"category"`
	Tags         []string `yaml:"tags"`
	Status       string   `yaml:"status"`
	Created      string   `yaml:"created"`
	Updated      string   `yaml:"updated"`
	Author       string   `yaml:"author"`
	Project      string   `yaml:"project"`
	Technologies []string `yaml:"technologies"`
	Audience     []string `yaml:"audience"`
	Related      []string `yaml:"related"`
}

// Decoder deserializes metadata blocks. It owns the warn-once tracker
// for unknown status values: the set is shared by every decode going
// through the same Decoder, so parallel decoding warns at most once per
// unique value. Tests get a clean slate by constructing a new Decoder.
type Decoder struct {
	logger *slog.Logger

	mu     sync.Mutex
	warned map[string]struct{}
}

// NewDecoder creates a decoder that reports unknown status values
// through logger.
func NewDecoder(logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{
		logger: logger,
		warned: make(map[string]struct{}),
	}
}

// Decode deserializes a metadata block into record metadata. Every
// field except title has a zero-value default.
func (d *Decoder) Decode(path, header string) (record.Metadata, error) {
	var raw rawMetadata
	if err := yaml.Unmarshal([]byte(header), &raw); err != nil {
		return record.Metadata{}, &apperr.SchemaError{Path: path, Err: err}
	}

	if raw.Title == "" {
		return record.Metadata{}, &apperr.MissingFieldError{Path: path, Field: "title"}
	}

	created, err := d.decodeDate(path, "created", raw.Created)
	if err != nil {
		return record.Metadata{}, err
	}
	updated, err := d.decodeDate(path, "updated", raw.Updated)
	if err != nil {
		return record.Metadata{}, err
	}

	return record.Metadata{
		Title:        raw.Title,
		Description:  raw.Description,
		Category:     raw.Category,
		Tags:         raw.Tags,
		Status:       d.decodeStatus(raw.Status),
		Created:      created,
		Updated:      updated,
		Author:       raw.Author,
		Project:      raw.Project,
		Technologies: raw.Technologies,
		Audience:     raw.Audience,
		Related:      raw.Related,
	}, nil
}

// decodeStatus matches case-insensitively against the canonical names.
// Anything else, including the empty string, falls back to Proposed;
// each unique unknown value is logged once per Decoder lifetime.
func (d *Decoder) decodeStatus(s string) record.Status {
	if s == "" {
		return record.StatusProposed
	}
	status, err := record.ParseStatus(s)
	if err == nil {
		return status
	}

	key := strings.ToLower(s)
	d.mu.Lock()
	_, seen := d.warned[key]
	if !seen {
		d.warned[key] = struct{}{}
	}
	d.mu.Unlock()

	if !seen {
		d.logger.Warn("unknown record status, defaulting to proposed",
			slog.String("status", key))
	}
	return record.StatusProposed
}

// decodeDate parses an optional ISO-8601 calendar date. Empty means
// absent; a present malformed value is an error, never dropped.
func (d *Decoder) decodeDate(path, field, value string) (*record.Date, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := record.ParseDate(value)
	if err != nil {
		return nil, &apperr.DateParseError{Path: path, Field: field, Value: value}
	}
	return &parsed, nil
}
