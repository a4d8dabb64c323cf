package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/record"
	"github.com/starford/ansuz/internal/render"
	"github.com/starford/ansuz/internal/stats"
	"github.com/starford/ansuz/internal/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedArchive(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "use-postgres.md",
		"---\ntitle: Use PostgreSQL\nstatus: accepted\ncategory: database\ndescription: Primary datastore.\ncreated: 2025-01-15\n---\n\nDurable relational store.\n")
	testutil.WriteFile(t, dir, "use-pooling.md",
		"---\ntitle: Use Connection Pooling\n---\n\nPool database connections.\n")
	return dir
}

func TestRunGenerate(t *testing.T) {
	dir := seedArchive(t)
	out := filepath.Join(t.TempDir(), "viewer", "records.html")

	err := RunGenerate(context.Background(), quietLogger(), GenerateOptions{
		Input:   dir,
		Output:  out,
		Title:   "Test Records",
		Theme:   render.ThemeLight,
		Pattern: "**/*.md",
	})
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)
	if !strings.Contains(html, "<title>Test Records</title>") {
		t.Error("title missing")
	}
	if !strings.Contains(html, "Use PostgreSQL") {
		t.Error("record data missing")
	}
}

func TestRunGenerate_EmptyInput(t *testing.T) {
	err := RunGenerate(context.Background(), quietLogger(), GenerateOptions{
		Input:   t.TempDir(),
		Output:  filepath.Join(t.TempDir(), "out.html"),
		Pattern: "**/*.md",
	})
	if !errors.Is(err, apperr.ErrEmptyArchive) {
		t.Fatalf("err = %v", err)
	}
}

func TestRunWiki(t *testing.T) {
	dir := seedArchive(t)
	out := filepath.Join(t.TempDir(), "wiki")

	err := RunWiki(context.Background(), quietLogger(), WikiOptions{
		Input:   dir,
		Output:  out,
		Pattern: "**/*.md",
	})
	if err != nil {
		t.Fatal(err)
	}

	// Five wiki pages plus the two copied source files.
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 7 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Fatalf("files = %v", names)
	}

	data, err := os.ReadFile(filepath.Join(out, "Record-Index.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[Use PostgreSQL](use-postgres.md)") {
		t.Errorf("index content:\n%s", data)
	}

	// Copied source file is byte-identical.
	copied, err := os.ReadFile(filepath.Join(out, "use-postgres.md"))
	if err != nil {
		t.Fatal(err)
	}
	original, _ := os.ReadFile(filepath.Join(dir, "use-postgres.md"))
	if string(copied) != string(original) {
		t.Error("source copy differs from original")
	}
}

func TestRunValidate(t *testing.T) {
	dir := seedArchive(t)

	code, err := RunValidate(context.Background(), quietLogger(), ValidateOptions{
		Input:   dir,
		Pattern: "**/*.md",
	})
	if err != nil {
		t.Fatal(err)
	}
	// Only warnings; non-strict passes.
	if code != 0 {
		t.Errorf("code = %d", code)
	}

	// Strict mode fails on the recommended-field warnings.
	code, err = RunValidate(context.Background(), quietLogger(), ValidateOptions{
		Input:   dir,
		Pattern: "**/*.md",
		Strict:  true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if code != 1 {
		t.Errorf("strict code = %d", code)
	}
}

func TestRunValidate_ParseErrorFails(t *testing.T) {
	dir := seedArchive(t)
	testutil.WriteFile(t, dir, "broken.md", "no frontmatter")

	code, err := RunValidate(context.Background(), quietLogger(), ValidateOptions{
		Input:   dir,
		Pattern: "**/*.md",
	})
	if err != nil {
		t.Fatal(err)
	}
	if code != 1 {
		t.Errorf("code = %d, parse errors must fail validation", code)
	}
}

func TestParseStatsFormat(t *testing.T) {
	cases := []struct {
		in   string
		want StatsFormat
	}{
		{"text", StatsText},
		{"json", StatsJSON},
		{"markdown", StatsMarkdown},
		{"md", StatsMarkdown},
		{"JSON", StatsJSON},
		{"MD", StatsMarkdown},
	}
	for _, c := range cases {
		got, err := ParseStatsFormat(c.in)
		if err != nil {
			t.Fatalf("ParseStatsFormat(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseStatsFormat(%q) = %v, want %v", c.in, got, c.want)
		}
	}
	if _, err := ParseStatsFormat("xml"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestFormatMarkdown(t *testing.T) {
	created := record.NewDate(2025, time.January, 15)
	st := stats.Compute([]*record.Record{
		{Meta: record.Metadata{Title: "A", Status: record.StatusAccepted, Category: "database", Author: "jane", Created: &created}},
	})

	out := formatMarkdown(st)
	for _, want := range []string{
		"# Record Statistics",
		"**Total Records:** 1",
		"| Status | Count |",
		"| accepted | 1 |",
		"| proposed | 0 |",
		"## By Category",
		"| database | 1 |",
		"## By Author",
		"| jane | 1 |",
		"- **Earliest:** 2025-01-15",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestFormatMarkdown_OmitsEmptySections(t *testing.T) {
	out := formatMarkdown(stats.Compute(nil))
	if strings.Contains(out, "## By Category") || strings.Contains(out, "## Date Range") {
		t.Errorf("empty sections rendered:\n%s", out)
	}
}
