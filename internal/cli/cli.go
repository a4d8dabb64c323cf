// Package cli implements the batch subcommands: generate, wiki,
// validate, and stats. Each one loads the archive, runs its use case,
// and reports to stdout/stderr.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/starford/ansuz/internal/archive"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/record"
	"github.com/starford/ansuz/internal/render"
	"github.com/starford/ansuz/internal/stats"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/validate"
)

// load discovers and decodes the archive at input.
func load(ctx context.Context, logger *slog.Logger, input, pattern string) (*archive.Result, storage.Provider, error) {
	store, err := storage.NewFS(input)
	if err != nil {
		return nil, nil, err
	}
	loader := archive.NewLoader(store, parser.New(logger))
	res, err := loader.Load(ctx, "", pattern)
	if err != nil {
		return nil, nil, err
	}
	return res, store, nil
}

// reportParseErrors prints skipped files to stderr.
func reportParseErrors(res *archive.Result) {
	if len(res.Errors) == 0 {
		return
	}
	fmt.Fprintln(os.Stderr, "\nWarnings:")
	for _, le := range res.Errors {
		fmt.Fprintf(os.Stderr, "  %s - %s\n", le.Path, le.Err)
	}
}

// GenerateOptions configures the generate command.
type GenerateOptions struct {
	Input   string
	Output  string
	Title   string
	Theme   render.Theme
	Pattern string
}

// RunGenerate renders the archive to a self-contained HTML viewer.
func RunGenerate(ctx context.Context, logger *slog.Logger, opts GenerateOptions) error {
	res, _, err := load(ctx, logger, opts.Input, opts.Pattern)
	if err != nil {
		return err
	}
	reportParseErrors(res)

	html, err := render.NewHTML().Render(res.Records, opts.Input, render.HTMLConfig{
		Title: opts.Title,
		Theme: opts.Theme,
	})
	if err != nil {
		return err
	}

	if err := writeArtifact(opts.Output, []byte(html)); err != nil {
		return err
	}
	fmt.Printf("Generated %s with %d records\n", opts.Output, len(res.Records))
	return nil
}

// WikiOptions configures the wiki command.
type WikiOptions struct {
	Input    string
	Output   string
	PagesURL string
	Pattern  string
}

// RunWiki renders the archive to a set of wiki markdown pages and
// copies the source record files alongside them.
func RunWiki(ctx context.Context, logger *slog.Logger, opts WikiOptions) error {
	res, store, err := load(ctx, logger, opts.Input, opts.Pattern)
	if err != nil {
		return err
	}
	reportParseErrors(res)

	w := &render.Wiki{PagesURL: opts.PagesURL}
	pages := w.RenderAll(res.Records)

	if err := os.MkdirAll(opts.Output, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	out, err := storage.NewFS(opts.Output)
	if err != nil {
		return err
	}

	generated := 0
	for _, page := range pages {
		if err := out.Write(page.Name, []byte(page.Content)); err != nil {
			return err
		}
		generated++
	}

	// Copy the source files so wiki links resolve.
	for _, rec := range res.Records {
		data, err := store.Read(rec.Path)
		if err != nil {
			return err
		}
		if err := out.Write(rec.Filename, data); err != nil {
			return err
		}
		generated++
	}

	fmt.Printf("Generated %d wiki files in %s from %d records\n", generated, opts.Output, len(res.Records))
	return nil
}

// ValidateOptions configures the validate command.
type ValidateOptions struct {
	Input   string
	Pattern string
	Strict  bool
}

// RunValidate checks every record against the default rules. The
// returned code is 0 when validation passed and 1 otherwise: any error
// or parse failure fails the run, and strict mode also fails on
// warnings.
func RunValidate(ctx context.Context, logger *slog.Logger, opts ValidateOptions) (int, error) {
	res, _, err := load(ctx, logger, opts.Input, opts.Pattern)
	if err != nil {
		return 1, err
	}

	for _, le := range res.Errors {
		fmt.Fprintf(os.Stderr, "ERROR: %s - %s\n", le.Path, le.Err)
	}

	engine := validate.NewEngine(validate.DefaultRules()...)
	report := engine.ValidateAll(res.Records)

	for _, issue := range report.Issues() {
		prefix := "WARNING"
		if issue.Severity == validate.SeverityError {
			prefix = "ERROR"
		}
		fmt.Printf("%s: %s - %s [%s]\n", prefix, issue.Path, issue.Message, issue.Rule)
	}

	fmt.Printf("\nValidation complete: %d errors, %d warnings\n", report.ErrorCount(), report.WarningCount())

	passed := report.ErrorCount() == 0 && len(res.Errors) == 0
	if opts.Strict {
		passed = passed && report.WarningCount() == 0
	}
	if passed {
		fmt.Println("All checks passed.")
		return 0, nil
	}
	fmt.Println("Validation failed.")
	return 1, nil
}

// StatsFormat selects the stats output representation.
type StatsFormat string

const (
	StatsText     StatsFormat = "text"
	StatsJSON     StatsFormat = "json"
	StatsMarkdown StatsFormat = "markdown"
)

// ParseStatsFormat parses a format name case-insensitively.
func ParseStatsFormat(s string) (StatsFormat, error) {
	switch strings.ToLower(s) {
	case "text":
		return StatsText, nil
	case "json":
		return StatsJSON, nil
	case "markdown", "md":
		return StatsMarkdown, nil
	}
	return "", fmt.Errorf("invalid format: %s", s)
}

// StatsOptions configures the stats command.
type StatsOptions struct {
	Input   string
	Pattern string
	Format  StatsFormat
}

// RunStats computes archive statistics and prints them in the
// requested format.
func RunStats(ctx context.Context, logger *slog.Logger, opts StatsOptions) error {
	res, _, err := load(ctx, logger, opts.Input, opts.Pattern)
	if err != nil {
		return err
	}
	reportParseErrors(res)

	st := stats.Compute(res.Records)

	var out string
	switch opts.Format {
	case StatsJSON:
		raw, err := json.MarshalIndent(st, "", "  ")
		if err != nil {
			return err
		}
		out = string(raw)
	case StatsMarkdown:
		out = formatMarkdown(st)
	default:
		out = st.Summary()
	}
	fmt.Println(out)
	return nil
}

// formatMarkdown renders statistics as markdown tables.
func formatMarkdown(st *stats.Statistics) string {
	var b strings.Builder
	b.WriteString("# Record Statistics\n\n")
	fmt.Fprintf(&b, "**Total Records:** %d\n\n", st.TotalCount)

	b.WriteString("## By Status\n\n")
	b.WriteString("| Status | Count |\n")
	b.WriteString("|--------|-------|\n")
	for _, status := range record.AllStatuses() {
		fmt.Fprintf(&b, "| %s | %d |\n", status, st.ByStatus[status.String()])
	}

	if len(st.ByCategory) > 0 {
		b.WriteString("\n## By Category\n\n")
		b.WriteString("| Category | Count |\n")
		b.WriteString("|----------|-------|\n")
		for _, k := range sortedKeys(st.ByCategory) {
			fmt.Fprintf(&b, "| %s | %d |\n", k, st.ByCategory[k])
		}
	}

	if len(st.ByAuthor) > 0 {
		b.WriteString("\n## By Author\n\n")
		b.WriteString("| Author | Count |\n")
		b.WriteString("|--------|-------|\n")
		for _, k := range sortedKeys(st.ByAuthor) {
			fmt.Fprintf(&b, "| %s | %d |\n", k, st.ByAuthor[k])
		}
	}

	if st.EarliestDate != nil && st.LatestDate != nil {
		b.WriteString("\n## Date Range\n\n")
		fmt.Fprintf(&b, "- **Earliest:** %s\n", st.EarliestDate)
		fmt.Fprintf(&b, "- **Latest:** %s\n", st.LatestDate)
	}
	return b.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// writeArtifact writes a standalone output file, creating its parent
// directory as needed.
func writeArtifact(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	out, err := storage.NewFS(dir)
	if err != nil {
		return err
	}
	return out.Write(filepath.Base(path), data)
}
