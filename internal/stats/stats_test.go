package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/record"
)

func date(y int, m time.Month, d int) *record.Date {
	dt := record.NewDate(y, m, d)
	return &dt
}

func TestCompute(t *testing.T) {
	s := Compute([]*record.Record{
		{Meta: record.Metadata{Title: "A", Status: record.StatusAccepted, Category: "infra", Author: "jane", Tags: []string{"db"}, Created: date(2024, time.March, 1)}},
		{Meta: record.Metadata{Title: "B", Status: record.StatusAccepted, Category: "infra", Created: date(2025, time.January, 15)}},
		{Meta: record.Metadata{Title: "C", Status: record.StatusProposed}},
	})
	if s.TotalCount != 3 {
		t.Errorf("total = %d", s.TotalCount)
	}
	if s.ByStatus["accepted"] != 2 || s.ByStatus["proposed"] != 1 {
		t.Errorf("by status = %v", s.ByStatus)
	}
	if s.ByStatus["deprecated"] != 0 {
		t.Errorf("deprecated missing from pre-seeded map: %v", s.ByStatus)
	}
	if len(s.ByStatus) != 4 {
		t.Errorf("status map = %v, want all 4 states", s.ByStatus)
	}
	if s.ByCategory["infra"] != 2 {
		t.Errorf("by category = %v", s.ByCategory)
	}
	if s.ByAuthor["jane"] != 1 || s.ByTag["db"] != 1 {
		t.Errorf("by author = %v, by tag = %v", s.ByAuthor, s.ByTag)
	}
	if s.ByYear[2024] != 1 || s.ByYear[2025] != 1 {
		t.Errorf("by year = %v", s.ByYear)
	}
	if s.EarliestDate.String() != "2024-03-01" || s.LatestDate.String() != "2025-01-15" {
		t.Errorf("date range = %s -> %s", s.EarliestDate, s.LatestDate)
	}
}

func TestCompute_NoDates(t *testing.T) {
	s := Compute([]*record.Record{{Meta: record.Metadata{Title: "A"}}})
	if s.EarliestDate != nil || s.LatestDate != nil {
		t.Errorf("date bounds should be nil: %v, %v", s.EarliestDate, s.LatestDate)
	}
}

func TestCompute_SingleDateIsBothBounds(t *testing.T) {
	d := date(2025, time.June, 2)
	s := Compute([]*record.Record{{Meta: record.Metadata{Title: "A", Created: d}}})
	if !s.EarliestDate.Equal(*d) || !s.LatestDate.Equal(*d) {
		t.Errorf("bounds = %s, %s", s.EarliestDate, s.LatestDate)
	}
}

func TestTopN(t *testing.T) {
	counts := map[string]int{"a": 5, "b": 3, "c": 1, "d": 4}
	top := TopN(counts, 2)
	if len(top) != 2 {
		t.Fatalf("len = %d", len(top))
	}
	if top[0].Value != "a" || top[0].Count != 5 {
		t.Errorf("top[0] = %+v", top[0])
	}
	if top[1].Value != "d" || top[1].Count != 4 {
		t.Errorf("top[1] = %+v", top[1])
	}
}

func TestTopN_FewerThanN(t *testing.T) {
	top := TopN(map[string]int{"a": 1}, 5)
	if len(top) != 1 {
		t.Errorf("len = %d", len(top))
	}
}

func TestSummary(t *testing.T) {
	s := Compute([]*record.Record{
		{Meta: record.Metadata{Title: "A", Status: record.StatusAccepted, Category: "infra", Created: date(2025, time.January, 15)}},
	})
	out := s.Summary()
	for _, want := range []string{
		"Record Statistics",
		"Total: 1 records",
		"By Status: accepted (1)",
		"By Category: infra (1)",
		"Date Range: 2025-01-15 -> 2025-01-15",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestSummary_EmptyBatch(t *testing.T) {
	out := Compute(nil).Summary()
	if !strings.Contains(out, "Total: 0 records") {
		t.Errorf("summary = %q", out)
	}
	if strings.Contains(out, "By Status:") {
		t.Errorf("zero-count statuses should be omitted:\n%s", out)
	}
	if strings.Contains(out, "Date Range:") {
		t.Errorf("date range should be omitted:\n%s", out)
	}
}
