package render

import (
	"strings"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/record"
	"github.com/starford/ansuz/internal/stats"
)

func testRecord(id, title string, status record.Status, category string, created *record.Date) *record.Record {
	return &record.Record{
		ID:       id,
		Path:     id + ".md",
		Filename: id + ".md",
		Meta: record.Metadata{
			Title:       title,
			Status:      status,
			Category:    category,
			Created:     created,
			Description: "Description of " + title,
		},
	}
}

func mkDate(y int, m time.Month, d int) *record.Date {
	dt := record.NewDate(y, m, d)
	return &dt
}

func testBatch() []*record.Record {
	return []*record.Record{
		testRecord("use-postgres", "Use PostgreSQL", record.StatusAccepted, "database", mkDate(2025, time.January, 15)),
		testRecord("use-pooling", "Use Pooling", record.StatusProposed, "database", mkDate(2025, time.March, 2)),
		testRecord("drop-soap", "Drop SOAP", record.StatusDeprecated, "", nil),
	}
}

func TestRenderAll(t *testing.T) {
	w := &Wiki{}
	pages := w.RenderAll(testBatch())
	if len(pages) != 5 {
		t.Fatalf("pages = %d", len(pages))
	}
	want := []string{"Record-Index.md", "Records-By-Status.md", "Records-By-Category.md", "Record-Timeline.md", "Record-Statistics.md"}
	for i, name := range want {
		if pages[i].Name != name {
			t.Errorf("pages[%d] = %q, want %q", i, pages[i].Name, name)
		}
		if pages[i].Content == "" {
			t.Errorf("page %q is empty", name)
		}
	}
}

func TestRenderIndex(t *testing.T) {
	w := &Wiki{}
	out := w.RenderIndex(testBatch())
	if !strings.Contains(out, "| ID | Title | Status | Category | Created |") {
		t.Errorf("header missing:\n%s", out)
	}
	if !strings.Contains(out, "| use-postgres | [Use PostgreSQL](use-postgres.md) | `accepted` | database | 2025-01-15 |") {
		t.Errorf("row missing:\n%s", out)
	}
	// Undated records show a dash.
	if !strings.Contains(out, "| drop-soap | [Drop SOAP](drop-soap.md) | `deprecated` |  | - |") {
		t.Errorf("undated row wrong:\n%s", out)
	}
	if strings.Contains(out, "Interactive Viewer") {
		t.Error("viewer link should be absent without a pages URL")
	}
}

func TestRenderIndex_PagesURL(t *testing.T) {
	w := &Wiki{PagesURL: "https://example.com/records"}
	out := w.RenderIndex(nil)
	if !strings.Contains(out, "> [View Interactive Viewer](https://example.com/records)") {
		t.Errorf("viewer link missing:\n%s", out)
	}
}

func TestRenderByStatus(t *testing.T) {
	w := &Wiki{}
	out := w.RenderByStatus(testBatch())

	// Groups come in lifecycle order; empty groups are dropped.
	iProposed := strings.Index(out, "## \U0001F7E1 proposed")
	iAccepted := strings.Index(out, "## ✅ accepted")
	iDeprecated := strings.Index(out, "## \U0001F534 deprecated")
	if iProposed < 0 || iAccepted < 0 || iDeprecated < 0 {
		t.Fatalf("group headings missing:\n%s", out)
	}
	if !(iProposed < iAccepted && iAccepted < iDeprecated) {
		t.Errorf("group order wrong:\n%s", out)
	}
	if strings.Contains(out, "superseded") {
		t.Errorf("empty group rendered:\n%s", out)
	}
	if !strings.Contains(out, "- [Use PostgreSQL](use-postgres.md) - Description of Use PostgreSQL") {
		t.Errorf("entry missing:\n%s", out)
	}
}

func TestRenderByCategory(t *testing.T) {
	w := &Wiki{}
	out := w.RenderByCategory(testBatch())

	iDatabase := strings.Index(out, "## database")
	iUncategorized := strings.Index(out, "## Uncategorized")
	if iDatabase < 0 || iUncategorized < 0 {
		t.Fatalf("headings missing:\n%s", out)
	}
	// "Uncategorized" sorts after "database" alphabetically.
	if iUncategorized < iDatabase {
		t.Errorf("category order wrong:\n%s", out)
	}
	if !strings.Contains(out, "- [Drop SOAP](drop-soap.md) `deprecated` - Description of Drop SOAP") {
		t.Errorf("entry missing:\n%s", out)
	}
}

func TestRenderTimeline(t *testing.T) {
	w := &Wiki{}
	out := w.RenderTimeline(testBatch())

	iMarch := strings.Index(out, "## March 2025")
	iJanuary := strings.Index(out, "## January 2025")
	iUndated := strings.Index(out, "## Undated")
	if iMarch < 0 || iJanuary < 0 || iUndated < 0 {
		t.Fatalf("sections missing:\n%s", out)
	}
	// Newest first, undated last.
	if !(iMarch < iJanuary && iJanuary < iUndated) {
		t.Errorf("section order wrong:\n%s", out)
	}
	if !strings.Contains(out, "- **2025-01-15** [Use PostgreSQL](use-postgres.md) `accepted`") {
		t.Errorf("dated entry missing:\n%s", out)
	}
	if !strings.Contains(out, "- [Drop SOAP](drop-soap.md) `deprecated`") {
		t.Errorf("undated entry missing:\n%s", out)
	}
}

func TestRenderStatistics(t *testing.T) {
	w := &Wiki{}
	out := w.RenderStatistics(stats.Compute(testBatch()))

	for _, want := range []string{
		"**Total Records:** 3",
		"- ✅ accepted: 1",
		"- ⚪ superseded: 0",
		"- database: 2",
		"- **Earliest:** 2025-01-15",
		"- **Latest:** 2025-03-02",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("statistics missing %q:\n%s", want, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 80); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	long := strings.Repeat("x", 100)
	got := truncate(long, 80)
	if len(got) != 80 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate = %q (len %d)", got, len(got))
	}
}
