// Package stats computes aggregate statistics over a record batch.
package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/starford/ansuz/internal/record"
)

// Statistics holds the aggregate view of one batch.
type Statistics struct {
	TotalCount   int            `json:"total_count"`
	ByStatus     map[string]int `json:"by_status"`
	ByCategory   map[string]int `json:"by_category"`
	ByAuthor     map[string]int `json:"by_author"`
	ByTag        map[string]int `json:"by_tag"`
	ByTechnology map[string]int `json:"by_technology"`
	ByProject    map[string]int `json:"by_project"`
	ByYear       map[int]int    `json:"by_year"`
	// EarliestDate and LatestDate bound the created dates across the
	// batch; both are nil when no record carries a created date.
	EarliestDate *record.Date `json:"earliest_date,omitempty"`
	LatestDate   *record.Date `json:"latest_date,omitempty"`
}

// Compute aggregates statistics in a single pass. The status map is
// pre-seeded with all four lifecycle states; the other field maps only
// hold values seen at least once. Date bounds use strict comparison, so
// the first date seen becomes both bounds and ties never overwrite.
func Compute(records []*record.Record) *Statistics {
	s := &Statistics{
		TotalCount:   len(records),
		ByStatus:     make(map[string]int, 4),
		ByCategory:   make(map[string]int),
		ByAuthor:     make(map[string]int),
		ByTag:        make(map[string]int),
		ByTechnology: make(map[string]int),
		ByProject:    make(map[string]int),
		ByYear:       make(map[int]int),
	}
	for _, st := range record.AllStatuses() {
		s.ByStatus[st.String()] = 0
	}

	for _, r := range records {
		s.ByStatus[r.Status().String()]++
		if r.Meta.Category != "" {
			s.ByCategory[r.Meta.Category]++
		}
		if r.Meta.Author != "" {
			s.ByAuthor[r.Meta.Author]++
		}
		for _, tag := range r.Meta.Tags {
			s.ByTag[tag]++
		}
		for _, tech := range r.Meta.Technologies {
			s.ByTechnology[tech]++
		}
		if r.Meta.Project != "" {
			s.ByProject[r.Meta.Project]++
		}

		if created := r.Meta.Created; created != nil {
			s.ByYear[created.Year()]++
			if s.EarliestDate == nil || created.Before(*s.EarliestDate) {
				s.EarliestDate = created
			}
			if s.LatestDate == nil || created.After(*s.LatestDate) {
				s.LatestDate = created
			}
		}
	}

	return s
}

// Entry is one (value, count) pair returned by TopN.
type Entry struct {
	Value string
	Count int
}

// TopN returns the n entries with the highest counts, sorted by count
// descending. Equal counts fall in map iteration order, so tie order is
// not reproducible across runs; callers needing determinism re-sort.
func TopN(counts map[string]int, n int) []Entry {
	entries := make([]Entry, 0, len(counts))
	for v, c := range counts {
		entries = append(entries, Entry{Value: v, Count: c})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Summary formats the statistics as a human-readable block.
func (s *Statistics) Summary() string {
	var b strings.Builder
	b.WriteString("Record Statistics\n")
	b.WriteString("=================\n")
	fmt.Fprintf(&b, "Total: %d records\n", s.TotalCount)

	var statusParts []string
	for _, st := range record.AllStatuses() {
		if count := s.ByStatus[st.String()]; count > 0 {
			statusParts = append(statusParts, fmt.Sprintf("%s (%d)", st, count))
		}
	}
	if len(statusParts) > 0 {
		fmt.Fprintf(&b, "By Status: %s\n", strings.Join(statusParts, ", "))
	}

	if len(s.ByCategory) > 0 {
		fmt.Fprintf(&b, "By Category: %s\n", joinTop(s.ByCategory, 5))
	}
	if len(s.ByAuthor) > 0 {
		fmt.Fprintf(&b, "Authors: %s\n", joinTop(s.ByAuthor, 5))
	}

	if s.EarliestDate != nil && s.LatestDate != nil {
		fmt.Fprintf(&b, "Date Range: %s -> %s\n", s.EarliestDate, s.LatestDate)
	}

	return b.String()
}

func joinTop(counts map[string]int, n int) string {
	top := TopN(counts, n)
	parts := make([]string, len(top))
	for i, e := range top {
		parts[i] = fmt.Sprintf("%s (%d)", e.Value, e.Count)
	}
	return strings.Join(parts, ", ")
}
