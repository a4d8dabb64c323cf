package api_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/starford/ansuz/internal/api"
	"github.com/starford/ansuz/internal/archive"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/recordservice"
	"github.com/starford/ansuz/internal/testutil"
	"github.com/starford/ansuz/internal/validate"
)

func newTestServer(t *testing.T, authEnabled bool, token string) *httptest.Server {
	t.Helper()
	db := testutil.TestDB(t)
	dir, store := testutil.TestArchive(t)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	p := parser.New(logger)

	testutil.WriteFile(t, dir, "use-postgres.md",
		"---\ntitle: Use PostgreSQL\nstatus: accepted\ncategory: database\ndescription: Primary datastore.\ncreated: 2025-01-15\ntags:\n  - db\nrelated:\n  - use-pooling.md\n---\n\nDurable relational store.\n")
	testutil.WriteFile(t, dir, "use-pooling.md",
		"---\ntitle: Use Connection Pooling\n---\n\nPool database connections.\n")

	if err := index.Sync(db, store, p, logger); err != nil {
		t.Fatal(err)
	}

	loader := archive.NewLoader(store, p)
	engine := validate.NewEngine(validate.DefaultRules()...)
	svc := recordservice.NewService(db, loader, engine, logger, "", "**/*.md")
	if err := svc.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(api.NewRouter(svc, authEnabled, token, nil))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string, out any) int {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func TestListRecords(t *testing.T) {
	srv := newTestServer(t, false, "")

	var body api.RecordListResponse
	if code := get(t, srv, "/records", &body); code != http.StatusOK {
		t.Fatalf("code = %d", code)
	}
	if body.Total != 2 || len(body.Records) != 2 {
		t.Fatalf("body = %+v", body)
	}
	if body.Records[0].ID != "use-pooling" {
		t.Errorf("order = %v", body.Records)
	}

	if code := get(t, srv, "/records?status=accepted", &body); code != http.StatusOK {
		t.Fatalf("code = %d", code)
	}
	if body.Total != 1 || body.Records[0].ID != "use-postgres" {
		t.Errorf("filtered = %+v", body)
	}
	if body.Records[0].Tags == nil {
		t.Error("tags must serialize as an array")
	}

	if code := get(t, srv, "/records?tag=db", &body); code != http.StatusOK || body.Total != 1 {
		t.Errorf("tag filter: code = %d, body = %+v", code, body)
	}
}

func TestGetRecord(t *testing.T) {
	srv := newTestServer(t, false, "")

	var body map[string]any
	if code := get(t, srv, "/records/use-pooling", &body); code != http.StatusOK {
		t.Fatalf("code = %d", code)
	}
	if body["id"] != "use-pooling" {
		t.Errorf("id = %v", body["id"])
	}
	from, ok := body["related_from"].([]any)
	if !ok || len(from) != 1 || from[0] != "use-postgres" {
		t.Errorf("related_from = %v", body["related_from"])
	}

	var errBody map[string]string
	if code := get(t, srv, "/records/missing", &errBody); code != http.StatusNotFound {
		t.Fatalf("code = %d", code)
	}
	if errBody["error"] == "" {
		t.Errorf("error body = %v", errBody)
	}
}

func TestSearch(t *testing.T) {
	srv := newTestServer(t, false, "")

	var body api.SearchResponse
	if code := get(t, srv, "/search?q=relational", &body); code != http.StatusOK {
		t.Fatalf("code = %d", code)
	}
	if len(body.Results) != 1 || body.Results[0].ID != "use-postgres" {
		t.Errorf("results = %v", body.Results)
	}

	// No hits is an empty array, never null.
	raw := struct {
		Results json.RawMessage `json:"results"`
	}{}
	if code := get(t, srv, "/search?q=zzzznohit", &raw); code != http.StatusOK {
		t.Fatalf("code = %d", code)
	}
	if string(raw.Results) != "[]" {
		t.Errorf("results = %s", raw.Results)
	}

	if code := get(t, srv, "/search", nil); code != http.StatusBadRequest {
		t.Errorf("missing q: code = %d", code)
	}
}

func TestAggregationEndpoints(t *testing.T) {
	srv := newTestServer(t, false, "")

	var g struct {
		Nodes []any `json:"nodes"`
		Edges []any `json:"edges"`
	}
	if code := get(t, srv, "/graph", &g); code != http.StatusOK {
		t.Fatalf("code = %d", code)
	}
	if len(g.Nodes) != 2 || len(g.Edges) != 1 {
		t.Errorf("graph = %+v", g)
	}

	var f struct {
		Statuses []any `json:"statuses"`
	}
	if code := get(t, srv, "/facets", &f); code != http.StatusOK || len(f.Statuses) != 4 {
		t.Errorf("facets: code = %d, statuses = %d", code, len(f.Statuses))
	}

	var st struct {
		TotalCount int `json:"total_count"`
	}
	if code := get(t, srv, "/stats", &st); code != http.StatusOK || st.TotalCount != 2 {
		t.Errorf("stats: code = %d, total = %d", code, st.TotalCount)
	}
}

func TestValidationEndpoints(t *testing.T) {
	srv := newTestServer(t, false, "")

	var body api.ValidationResponse
	if code := get(t, srv, "/validation", &body); code != http.StatusOK {
		t.Fatalf("code = %d", code)
	}
	// use-pooling misses description, created, and category.
	if !body.Valid || body.Errors != 0 || body.Warnings != 3 {
		t.Errorf("body = %+v", body)
	}

	if code := get(t, srv, "/records/use-postgres/validation", &body); code != http.StatusOK {
		t.Fatalf("code = %d", code)
	}
	if !body.Valid || len(body.Issues) != 0 {
		t.Errorf("body = %+v", body)
	}
	if body.Issues == nil {
		t.Error("issues must serialize as an array")
	}

	if code := get(t, srv, "/records/missing/validation", nil); code != http.StatusNotFound {
		t.Errorf("code = %d", code)
	}
}

func TestAuth(t *testing.T) {
	srv := newTestServer(t, true, "secret")

	resp, err := http.Get(srv.URL + "/records")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token: code = %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/records", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong token: code = %d", resp.StatusCode)
	}

	req.Header.Set("Authorization", "Bearer secret")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("valid token: code = %d", resp.StatusCode)
	}
}
