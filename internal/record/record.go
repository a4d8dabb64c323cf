// Package record defines the domain types for Ansuz: decision records,
// their frontmatter metadata, and the lifecycle status enumeration.
package record

import (
	"path/filepath"
	"strings"
)

// Metadata is the decoded frontmatter of a record. Every field except
// Title is optional and defaults to its zero value.
type Metadata struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Category     string   `json:"category,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Status       Status   `json:"status"`
	Created      *Date    `json:"created,omitempty"`
	Updated      *Date    `json:"updated,omitempty"`
	Author       string   `json:"author,omitempty"`
	Project      string   `json:"project,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Audience     []string `json:"audience,omitempty"`
	Related      []string `json:"related,omitempty"`
}

// Record is one fully decoded and rendered archive document. Records are
// treated as read-only after assembly; aggregations never mutate them.
type Record struct {
	// ID is derived from the filename stem. Uniqueness is a caller
	// convention: two files sharing a stem yield two records with the
	// same ID and downstream aggregation counts both.
	ID       string `json:"id"`
	Filename string `json:"filename"`
	// Path is the source locator, used for error messages and for
	// copying source content. Not serialized.
	Path string   `json:"-"`
	Meta Metadata `json:"meta"`
	// BodyMarkdown is the raw body with the header removed.
	BodyMarkdown string `json:"-"`
	BodyHTML     string `json:"body_html"`
	// BodyText is the flattened plain-text body for search indexing.
	BodyText string `json:"body_text"`
}

// Title returns the record title from its metadata.
func (r *Record) Title() string { return r.Meta.Title }

// Status returns the record lifecycle status from its metadata.
func (r *Record) Status() Status { return r.Meta.Status }

// IDFromPath derives a record identifier from the filename stem of a
// source path, with the extension stripped.
func IDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
