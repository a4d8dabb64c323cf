package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/starford/ansuz/internal/record"
	"github.com/starford/ansuz/internal/stats"
)

// Page is one generated wiki file.
type Page struct {
	Name    string
	Content string
}

// Wiki generates GitHub-wiki-style markdown pages from a record batch.
type Wiki struct {
	// PagesURL, when set, cross-links the wiki to the hosted HTML
	// viewer.
	PagesURL string
}

// RenderAll produces the full wiki page set for a batch.
func (w *Wiki) RenderAll(records []*record.Record) []Page {
	st := stats.Compute(records)
	return []Page{
		{Name: "Record-Index.md", Content: w.RenderIndex(records)},
		{Name: "Records-By-Status.md", Content: w.RenderByStatus(records)},
		{Name: "Records-By-Category.md", Content: w.RenderByCategory(records)},
		{Name: "Record-Timeline.md", Content: w.RenderTimeline(records)},
		{Name: "Record-Statistics.md", Content: w.RenderStatistics(st)},
	}
}

// RenderIndex generates the main index table.
func (w *Wiki) RenderIndex(records []*record.Record) string {
	var b strings.Builder
	b.WriteString("# Record Index\n\n")

	if w.PagesURL != "" {
		fmt.Fprintf(&b, "> [View Interactive Viewer](%s)\n\n", w.PagesURL)
	}

	b.WriteString("| ID | Title | Status | Category | Created |\n")
	b.WriteString("|:---|:------|:------:|:---------|:--------|\n")
	for _, r := range records {
		created := "-"
		if r.Meta.Created != nil {
			created = r.Meta.Created.String()
		}
		fmt.Fprintf(&b, "| %s | [%s](%s) | %s | %s | %s |\n",
			r.ID, r.Title(), r.Filename, statusBadge(r.Status()), r.Meta.Category, created)
	}
	return b.String()
}

// RenderByStatus generates a listing grouped by lifecycle status, in
// the enumeration's fixed order.
func (w *Wiki) RenderByStatus(records []*record.Record) string {
	var b strings.Builder
	b.WriteString("# Records by Status\n\n")

	byStatus := make(map[record.Status][]*record.Record)
	for _, r := range records {
		byStatus[r.Status()] = append(byStatus[r.Status()], r)
	}

	for _, status := range record.AllStatuses() {
		group := byStatus[status]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s %s\n\n", statusEmoji(status), status)
		for _, r := range group {
			fmt.Fprintf(&b, "- [%s](%s) - %s\n", r.Title(), r.Filename, r.Meta.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderByCategory generates a listing grouped by category, categories
// sorted alphabetically, uncategorized records last under their own
// heading.
func (w *Wiki) RenderByCategory(records []*record.Record) string {
	var b strings.Builder
	b.WriteString("# Records by Category\n\n")

	byCategory := make(map[string][]*record.Record)
	for _, r := range records {
		category := r.Meta.Category
		if category == "" {
			category = "Uncategorized"
		}
		byCategory[category] = append(byCategory[category], r)
	}

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	for _, category := range categories {
		fmt.Fprintf(&b, "## %s\n\n", category)
		for _, r := range byCategory[category] {
			fmt.Fprintf(&b, "- [%s](%s) %s - %s\n",
				r.Title(), r.Filename, statusBadge(r.Status()), truncate(r.Meta.Description, 80))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderTimeline generates a chronological listing, newest first,
// grouped by year-month, with undated records in a trailing section.
func (w *Wiki) RenderTimeline(records []*record.Record) string {
	var b strings.Builder
	b.WriteString("# Record Timeline\n\n")

	dated := make([]*record.Record, 0, len(records))
	var undated []*record.Record
	for _, r := range records {
		if r.Meta.Created != nil {
			dated = append(dated, r)
		} else {
			undated = append(undated, r)
		}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[j].Meta.Created.Before(*dated[i].Meta.Created)
	})

	currentMonth := ""
	for _, r := range dated {
		d := r.Meta.Created
		monthKey := fmt.Sprintf("%d-%02d", d.Year(), int(d.Month()))
		if monthKey != currentMonth {
			currentMonth = monthKey
			fmt.Fprintf(&b, "\n## %s %d\n\n", d.Month(), d.Year())
		}
		fmt.Fprintf(&b, "- **%s** [%s](%s) %s\n", d, r.Title(), r.Filename, statusBadge(r.Status()))
	}

	if len(undated) > 0 {
		b.WriteString("\n## Undated\n\n")
		for _, r := range undated {
			fmt.Fprintf(&b, "- [%s](%s) %s\n", r.Title(), r.Filename, statusBadge(r.Status()))
		}
	}
	return b.String()
}

// RenderStatistics generates the statistics summary page.
func (w *Wiki) RenderStatistics(st *stats.Statistics) string {
	var b strings.Builder
	b.WriteString("# Record Statistics\n\n")
	fmt.Fprintf(&b, "**Total Records:** %d\n\n", st.TotalCount)

	b.WriteString("## By Status\n\n")
	for _, status := range record.AllStatuses() {
		fmt.Fprintf(&b, "- %s %s: %d\n", statusEmoji(status), status, st.ByStatus[status.String()])
	}
	b.WriteString("\n")

	if len(st.ByCategory) > 0 {
		b.WriteString("## By Category\n\n")
		for _, e := range sortedEntries(st.ByCategory) {
			fmt.Fprintf(&b, "- %s: %d\n", e.Value, e.Count)
		}
		b.WriteString("\n")
	}

	if len(st.ByAuthor) > 0 {
		b.WriteString("## By Author\n\n")
		entries := sortedEntries(st.ByAuthor)
		if len(entries) > 10 {
			entries = entries[:10]
		}
		for _, e := range entries {
			fmt.Fprintf(&b, "- %s: %d\n", e.Value, e.Count)
		}
		b.WriteString("\n")
	}

	if st.EarliestDate != nil && st.LatestDate != nil {
		b.WriteString("## Date Range\n\n")
		fmt.Fprintf(&b, "- **Earliest:** %s\n", st.EarliestDate)
		fmt.Fprintf(&b, "- **Latest:** %s\n", st.LatestDate)
	}
	return b.String()
}

// sortedEntries orders a count map by count descending with value
// ascending tie-break, the same convention the facets use.
func sortedEntries(counts map[string]int) []stats.Entry {
	entries := make([]stats.Entry, 0, len(counts))
	for v, c := range counts {
		entries = append(entries, stats.Entry{Value: v, Count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Value < entries[j].Value
	})
	return entries
}

func statusEmoji(s record.Status) string {
	switch s {
	case record.StatusAccepted:
		return "✅"
	case record.StatusDeprecated:
		return "\U0001F534"
	case record.StatusSuperseded:
		return "⚪"
	default:
		return "\U0001F7E1"
	}
}

func statusBadge(s record.Status) string {
	return "`" + s.String() + "`"
}

// truncate shortens s to at most max bytes, appending an ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
