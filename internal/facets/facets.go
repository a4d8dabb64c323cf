// Package facets computes per-field value counts over a record batch
// for filter UIs.
package facets

import (
	"sort"

	"github.com/starford/ansuz/internal/record"
)

// Value is a single facet entry with its count.
type Value struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Facets is the fixed bundle of the six filterable dimensions. Each
// slice is sorted by count descending, ties broken by value ascending;
// that ordering determines filter-UI ordering downstream and must be
// stable across runs.
type Facets struct {
	Statuses     []Value `json:"statuses"`
	Categories   []Value `json:"categories"`
	Tags         []Value `json:"tags"`
	Authors      []Value `json:"authors"`
	Projects     []Value `json:"projects"`
	Technologies []Value `json:"technologies"`
}

// Compute aggregates facets in a single pass over the batch. The status
// dimension is pre-seeded so all four lifecycle states appear even at
// zero; the other dimensions only contain values seen at least once.
// Multi-valued fields contribute one increment per element.
func Compute(records []*record.Record) *Facets {
	statuses := make(map[string]int, 4)
	for _, s := range record.AllStatuses() {
		statuses[s.String()] = 0
	}
	categories := make(map[string]int)
	tags := make(map[string]int)
	authors := make(map[string]int)
	projects := make(map[string]int)
	technologies := make(map[string]int)

	for _, r := range records {
		statuses[r.Status().String()]++
		if r.Meta.Category != "" {
			categories[r.Meta.Category]++
		}
		for _, tag := range r.Meta.Tags {
			tags[tag]++
		}
		if r.Meta.Author != "" {
			authors[r.Meta.Author]++
		}
		if r.Meta.Project != "" {
			projects[r.Meta.Project]++
		}
		for _, tech := range r.Meta.Technologies {
			technologies[tech]++
		}
	}

	return &Facets{
		Statuses:     sortedValues(statuses),
		Categories:   sortedValues(categories),
		Tags:         sortedValues(tags),
		Authors:      sortedValues(authors),
		Projects:     sortedValues(projects),
		Technologies: sortedValues(technologies),
	}
}

// sortedValues converts a count map to the canonical facet ordering:
// count descending, then value ascending.
func sortedValues(counts map[string]int) []Value {
	values := make([]Value, 0, len(counts))
	for v, c := range counts {
		values = append(values, Value{Value: v, Count: c})
	}
	sort.Slice(values, func(i, j int) bool {
		if values[i].Count != values[j].Count {
			return values[i].Count > values[j].Count
		}
		return values[i].Value < values[j].Value
	})
	return values
}
