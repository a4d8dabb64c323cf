// Package validate runs pluggable rules against records and collects
// severity-tagged issues into reports.
package validate

import (
	"fmt"

	"github.com/starford/ansuz/internal/record"
)

// Severity classifies an issue. Warnings never affect validity on
// their own; treating them as failures is a caller policy.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue is a single finding for one record.
type Issue struct {
	Severity Severity `json:"severity"`
	Path     string   `json:"path"`
	Message  string   `json:"message"`
	Rule     string   `json:"rule"`
	// Line is reserved for per-line checks; current rules leave it 0.
	Line int `json:"line,omitempty"`
}

func (i Issue) String() string {
	location := i.Path
	if i.Line > 0 {
		location = fmt.Sprintf("%s:%d", i.Path, i.Line)
	}
	return fmt.Sprintf("%s: %s: %s [%s]", i.Severity, location, i.Message, i.Rule)
}

// Report is an ordered issue sequence. Issues are never deduplicated; a
// rule may emit several issues for one record.
type Report struct {
	issues []Issue
}

// Add appends issues to the report in order.
func (r *Report) Add(issues ...Issue) {
	r.issues = append(r.issues, issues...)
}

// Merge appends another report's issues after this report's.
func (r *Report) Merge(other *Report) {
	r.issues = append(r.issues, other.issues...)
}

// Issues returns every issue in insertion order.
func (r *Report) Issues() []Issue { return r.issues }

// BySeverity returns the issues with the given severity, in order.
func (r *Report) BySeverity(severity Severity) []Issue {
	var out []Issue
	for _, i := range r.issues {
		if i.Severity == severity {
			out = append(out, i)
		}
	}
	return out
}

// Errors returns the error-severity issues.
func (r *Report) Errors() []Issue { return r.BySeverity(SeverityError) }

// Warnings returns the warning-severity issues.
func (r *Report) Warnings() []Issue { return r.BySeverity(SeverityWarning) }

// ErrorCount returns the number of error-severity issues.
func (r *Report) ErrorCount() int { return len(r.Errors()) }

// WarningCount returns the number of warning-severity issues.
func (r *Report) WarningCount() int { return len(r.Warnings()) }

// Len returns the total issue count.
func (r *Report) Len() int { return len(r.issues) }

// IsEmpty reports whether the report holds no issues at all.
func (r *Report) IsEmpty() bool { return len(r.issues) == 0 }

// IsValid reports whether the report holds zero error-severity issues.
func (r *Report) IsValid() bool { return r.ErrorCount() == 0 }

// Rule is a named, side-effect-free check over a single record.
type Rule interface {
	Name() string
	Description() string
	Validate(r *record.Record) []Issue
}

// Engine runs an ordered rule list. For one record, rule outputs are
// concatenated in list order; for a batch, per-record reports are
// concatenated in batch order.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine with the given rules, in order.
func NewEngine(rules ...Rule) *Engine {
	return &Engine{rules: rules}
}

// AddRule appends a rule after the existing ones.
func (e *Engine) AddRule(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Rules returns the configured rules in execution order.
func (e *Engine) Rules() []Rule { return e.rules }

// Validate runs every rule against one record.
func (e *Engine) Validate(r *record.Record) *Report {
	report := &Report{}
	for _, rule := range e.rules {
		report.Add(rule.Validate(r)...)
	}
	return report
}

// ValidateAll runs every rule against every record, in batch order.
func (e *Engine) ValidateAll(records []*record.Record) *Report {
	report := &Report{}
	for _, r := range records {
		report.Merge(e.Validate(r))
	}
	return report
}

// DefaultRules returns the built-in rule set in its canonical order.
func DefaultRules() []Rule {
	return []Rule{RequiredFieldsRule{}, RecommendedFieldsRule{}}
}

// RequiredFieldsRule errors on records missing required metadata. The
// decoder already rejects empty titles, so this only fires for records
// assembled through some other path.
type RequiredFieldsRule struct{}

func (RequiredFieldsRule) Name() string { return "required-fields" }

func (RequiredFieldsRule) Description() string {
	return "Checks that required frontmatter fields are present"
}

func (rr RequiredFieldsRule) Validate(r *record.Record) []Issue {
	var issues []Issue
	if r.Title() == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     r.Path,
			Message:  "missing required field 'title'",
			Rule:     rr.Name(),
		})
	}
	return issues
}

// RecommendedFieldsRule warns about absent optional-but-recommended
// metadata. The three checks are independent, so one record can collect
// zero to three warnings.
type RecommendedFieldsRule struct{}

func (RecommendedFieldsRule) Name() string { return "recommended-fields" }

func (RecommendedFieldsRule) Description() string {
	return "Warns about missing recommended fields"
}

func (rr RecommendedFieldsRule) Validate(r *record.Record) []Issue {
	var issues []Issue
	warn := func(field string) {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     r.Path,
			Message:  fmt.Sprintf("missing recommended field '%s'", field),
			Rule:     rr.Name(),
		})
	}
	if r.Meta.Description == "" {
		warn("description")
	}
	if r.Meta.Created == nil {
		warn("created")
	}
	if r.Meta.Category == "" {
		warn("category")
	}
	return issues
}
