// Package render turns record batches into presentation artifacts: a
// self-contained HTML viewer and a set of wiki markdown pages.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/starford/ansuz/internal/facets"
	"github.com/starford/ansuz/internal/graph"
	"github.com/starford/ansuz/internal/record"
)

// Theme is the color-scheme preference baked into the viewer.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// ParseTheme parses a theme name case-insensitively.
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(s) {
	case "light":
		return ThemeLight, nil
	case "dark":
		return ThemeDark, nil
	case "auto":
		return ThemeAuto, nil
	}
	return "", fmt.Errorf("invalid theme: %s", s)
}

// HTMLConfig configures viewer generation.
type HTMLConfig struct {
	Title string
	Theme Theme
}

// ViewerMeta describes one generation run, embedded alongside the data.
type ViewerMeta struct {
	Generated     string `json:"generated"`
	Generator     string `json:"generator"`
	SchemaVersion string `json:"schema_version"`
	SourceDir     string `json:"source_dir"`
}

// ViewerData is the JSON payload embedded in the viewer for the
// client-side script.
type ViewerData struct {
	Meta    ViewerMeta       `json:"meta"`
	Records []*record.Record `json:"records"`
	Facets  *facets.Facets   `json:"facets"`
	Graph   *graph.Graph     `json:"graph"`
}

// HTML renders record batches to a single self-contained HTML page with
// the data, styles, and viewer script all inlined.
type HTML struct {
	tmpl *template.Template
}

// NewHTML creates the viewer renderer.
func NewHTML() *HTML {
	return &HTML{tmpl: template.Must(template.New("viewer").Parse(viewerTemplate))}
}

// Render produces the viewer page for records read from sourceDir.
func (h *HTML) Render(records []*record.Record, sourceDir string, cfg HTMLConfig) (string, error) {
	data := ViewerData{
		Meta: ViewerMeta{
			Generated:     time.Now().UTC().Format(time.RFC3339),
			Generator:     "ansuz/1.0.0",
			SchemaVersion: "1.0.0",
			SourceDir:     sourceDir,
		},
		Records: records,
		Facets:  facets.Compute(records),
		Graph:   graph.Build(records),
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("render: marshal viewer data: %w", err)
	}
	// "</script>" inside string values would terminate the data block
	// early, so break the sequence.
	safe := bytes.ReplaceAll(payload, []byte("</"), []byte(`<\/`))

	theme := cfg.Theme
	if theme == "" {
		theme = ThemeAuto
	}
	title := cfg.Title
	if title == "" {
		title = "Records"
	}

	var buf bytes.Buffer
	err = h.tmpl.Execute(&buf, map[string]any{
		"Title": title,
		"Theme": string(theme),
		"Data":  template.JS(safe),
		"CSS":   template.CSS(viewerCSS),
		"JS":    template.JS(viewerJS),
	})
	if err != nil {
		return "", fmt.Errorf("render: execute template: %w", err)
	}
	return buf.String(), nil
}

const viewerTemplate = `<!DOCTYPE html>
<html lang="en" data-theme="{{.Theme}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>{{.CSS}}</style>
</head>
<body>
<header>
  <h1>{{.Title}}</h1>
  <input id="search" type="search" placeholder="Filter records...">
</header>
<main>
  <aside id="facets"></aside>
  <section id="records"></section>
  <article id="detail" hidden></article>
</main>
<script id="viewer-data" type="application/json">{{.Data}}</script>
<script>{{.JS}}</script>
</body>
</html>
`

const viewerCSS = `
:root {
  --bg: #ffffff; --fg: #1f2937; --muted: #6b7280; --border: #e5e7eb;
  --accent: #2563eb;
}
[data-theme="dark"] {
  --bg: #111827; --fg: #f9fafb; --muted: #9ca3af; --border: #374151;
}
@media (prefers-color-scheme: dark) {
  [data-theme="auto"] {
    --bg: #111827; --fg: #f9fafb; --muted: #9ca3af; --border: #374151;
  }
}
* { box-sizing: border-box; }
body {
  margin: 0; background: var(--bg); color: var(--fg);
  font: 15px/1.5 system-ui, sans-serif;
}
header {
  display: flex; align-items: center; gap: 1rem;
  padding: 1rem 1.5rem; border-bottom: 1px solid var(--border);
}
header h1 { margin: 0; font-size: 1.2rem; flex: 1; }
#search {
  padding: 0.4rem 0.6rem; border: 1px solid var(--border);
  border-radius: 6px; background: var(--bg); color: var(--fg); width: 16rem;
}
main { display: flex; align-items: flex-start; }
#facets { width: 15rem; padding: 1rem 1.5rem; }
#facets h3 { margin: 1rem 0 0.25rem; font-size: 0.8rem; text-transform: uppercase; color: var(--muted); }
#facets button {
  display: block; width: 100%; text-align: left; padding: 0.2rem 0.4rem;
  background: none; border: none; color: var(--fg); cursor: pointer; border-radius: 4px;
}
#facets button.active { background: var(--accent); color: #fff; }
#records { flex: 1; padding: 1rem; }
.card {
  border: 1px solid var(--border); border-radius: 8px;
  padding: 0.75rem 1rem; margin-bottom: 0.75rem; cursor: pointer;
}
.card h2 { margin: 0 0 0.25rem; font-size: 1rem; }
.card .meta { color: var(--muted); font-size: 0.85rem; }
.badge {
  display: inline-block; padding: 0.1rem 0.5rem; border-radius: 999px;
  font-size: 0.75rem; color: #fff;
}
.status-proposed { background: #f59e0b; }
.status-accepted { background: #10b981; }
.status-deprecated { background: #ef4444; }
.status-superseded { background: #6b7280; }
#detail { flex: 1.2; padding: 1rem 1.5rem; border-left: 1px solid var(--border); }
#detail pre { overflow-x: auto; }
`

const viewerJS = `
(function () {
  var data = JSON.parse(document.getElementById("viewer-data").textContent);
  var filters = { status: null, category: null, tag: null };
  var query = "";

  function matches(r) {
    var m = r.meta || {};
    if (filters.status && r.meta.status !== filters.status) return false;
    if (filters.category && m.category !== filters.category) return false;
    if (filters.tag && (m.tags || []).indexOf(filters.tag) < 0) return false;
    if (query) {
      var hay = (r.id + " " + (m.title || "") + " " + (r.body_text || "")).toLowerCase();
      if (hay.indexOf(query) < 0) return false;
    }
    return true;
  }

  function facetGroup(title, values, key) {
    if (!values || !values.length) return "";
    var html = "<h3>" + title + "</h3>";
    values.forEach(function (v) {
      var active = filters[key] === v.value ? " active" : "";
      html += '<button class="' + active + '" data-key="' + key +
        '" data-value="' + v.value + '">' + v.value + " (" + v.count + ")</button>";
    });
    return html;
  }

  function renderFacets() {
    var f = data.facets || {};
    document.getElementById("facets").innerHTML =
      facetGroup("Status", f.statuses, "status") +
      facetGroup("Category", f.categories, "category") +
      facetGroup("Tags", f.tags, "tag");
  }

  function renderRecords() {
    var out = "";
    (data.records || []).filter(matches).forEach(function (r) {
      var m = r.meta || {};
      out += '<div class="card" data-id="' + r.id + '">' +
        "<h2>" + (m.title || r.id) + "</h2>" +
        '<span class="badge status-' + m.status + '">' + m.status + "</span> " +
        '<span class="meta">' + (m.category || "") + " " + (m.created || "") + "</span>" +
        "</div>";
    });
    document.getElementById("records").innerHTML = out;
  }

  function showDetail(id) {
    var rec = (data.records || []).find(function (r) { return r.id === id; });
    var el = document.getElementById("detail");
    if (!rec) { el.hidden = true; return; }
    el.hidden = false;
    el.innerHTML = rec.body_html || "";
  }

  document.getElementById("facets").addEventListener("click", function (e) {
    var btn = e.target.closest("button");
    if (!btn) return;
    var key = btn.dataset.key, value = btn.dataset.value;
    filters[key] = filters[key] === value ? null : value;
    renderFacets();
    renderRecords();
  });
  document.getElementById("records").addEventListener("click", function (e) {
    var card = e.target.closest(".card");
    if (card) showDetail(card.dataset.id);
  });
  document.getElementById("search").addEventListener("input", function (e) {
    query = e.target.value.toLowerCase();
    renderRecords();
  });

  renderFacets();
  renderRecords();
})();
`
