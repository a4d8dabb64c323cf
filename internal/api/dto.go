package api

import (
	"time"

	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/validate"
)

// RecordListItem is a lightweight item in a list response.
type RecordListItem struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Category  string    `json:"category,omitempty"`
	Author    string    `json:"author,omitempty"`
	Created   string    `json:"created,omitempty"`
	Tags      []string  `json:"tags"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

func listItemFromRow(r index.RecordRow) RecordListItem {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return RecordListItem{
		ID:        r.ID,
		Path:      r.Path,
		Title:     r.Title,
		Status:    r.Status,
		Category:  r.Category,
		Author:    r.Author,
		Created:   r.Created,
		Tags:      tags,
		Checksum:  r.Checksum,
		UpdatedAt: r.UpdatedAt,
	}
}

// RecordListResponse is the payload for GET /records.
type RecordListResponse struct {
	Records []RecordListItem `json:"records"`
	Total   int              `json:"total"`
}

// SearchResponse is the payload for GET /search.
type SearchResponse struct {
	Results []index.SearchResult `json:"results"`
}

// ValidationResponse is the payload for GET /validation.
type ValidationResponse struct {
	Issues   []validate.Issue `json:"issues"`
	Errors   int              `json:"errors"`
	Warnings int              `json:"warnings"`
	Valid    bool             `json:"valid"`
}

func validationResponse(report *validate.Report) ValidationResponse {
	issues := report.Issues()
	if issues == nil {
		issues = []validate.Issue{}
	}
	return ValidationResponse{
		Issues:   issues,
		Errors:   report.ErrorCount(),
		Warnings: report.WarningCount(),
		Valid:    report.IsValid(),
	}
}
