package validate

import (
	"strings"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/record"
)

func complete() *record.Record {
	created := record.NewDate(2025, time.January, 15)
	return &record.Record{
		ID:   "a",
		Path: "a.md",
		Meta: record.Metadata{
			Title:       "A",
			Description: "Something",
			Category:    "infra",
			Created:     &created,
		},
	}
}

func TestEngine_CompleteRecordPasses(t *testing.T) {
	engine := NewEngine(DefaultRules()...)
	report := engine.Validate(complete())
	if !report.IsEmpty() {
		t.Errorf("issues = %v", report.Issues())
	}
	if !report.IsValid() {
		t.Error("complete record should be valid")
	}
}

func TestRequiredFieldsRule(t *testing.T) {
	report := NewEngine(RequiredFieldsRule{}).Validate(&record.Record{Path: "a.md"})
	if report.ErrorCount() != 1 {
		t.Fatalf("errors = %d", report.ErrorCount())
	}
	issue := report.Errors()[0]
	if issue.Rule != "required-fields" || !strings.Contains(issue.Message, "title") {
		t.Errorf("issue = %+v", issue)
	}
}

func TestRecommendedFieldsRule_IndependentWarnings(t *testing.T) {
	report := NewEngine(RecommendedFieldsRule{}).Validate(&record.Record{
		Path: "a.md",
		Meta: record.Metadata{Title: "A"},
	})
	if report.WarningCount() != 3 {
		t.Fatalf("warnings = %d, want 3", report.WarningCount())
	}
	// Warnings alone never invalidate a record.
	if !report.IsValid() {
		t.Error("warnings must not affect validity")
	}

	// Each check is independent.
	created := record.NewDate(2025, time.January, 15)
	report = NewEngine(RecommendedFieldsRule{}).Validate(&record.Record{
		Path: "a.md",
		Meta: record.Metadata{Title: "A", Created: &created},
	})
	if report.WarningCount() != 2 {
		t.Errorf("warnings = %d, want 2", report.WarningCount())
	}
	for _, issue := range report.Warnings() {
		if strings.Contains(issue.Message, "created") {
			t.Errorf("created warning should be gone: %+v", issue)
		}
	}
}

func TestValidateAll_BatchOrder(t *testing.T) {
	engine := NewEngine(DefaultRules()...)
	a := &record.Record{Path: "a.md", Meta: record.Metadata{Title: "A"}}
	b := &record.Record{Path: "b.md"}
	report := engine.ValidateAll([]*record.Record{a, b})

	if report.Len() != 7 {
		t.Fatalf("len = %d, want 3 warnings for a + 1 error and 3 warnings for b", report.Len())
	}
	issues := report.Issues()
	for _, issue := range issues[:3] {
		if issue.Path != "a.md" {
			t.Errorf("batch order broken: %+v", issue)
		}
	}
	if report.ErrorCount() != 1 || report.Errors()[0].Path != "b.md" {
		t.Errorf("errors = %v", report.Errors())
	}
	if report.IsValid() {
		t.Error("report with errors must be invalid")
	}
}

func TestReport_Counters(t *testing.T) {
	r := &Report{}
	r.Add(
		Issue{Severity: SeverityError, Path: "a.md"},
		Issue{Severity: SeverityWarning, Path: "a.md"},
		Issue{Severity: SeverityWarning, Path: "b.md"},
	)
	if r.ErrorCount() != 1 || r.WarningCount() != 2 || r.Len() != 3 {
		t.Errorf("counts = %d/%d/%d", r.ErrorCount(), r.WarningCount(), r.Len())
	}

	other := &Report{}
	other.Add(Issue{Severity: SeverityError, Path: "c.md"})
	r.Merge(other)
	if r.ErrorCount() != 2 || r.Len() != 4 {
		t.Errorf("after merge: %d errors, %d total", r.ErrorCount(), r.Len())
	}
}

func TestIssueString(t *testing.T) {
	i := Issue{Severity: SeverityError, Path: "a.md", Message: "bad", Rule: "required-fields"}
	if got := i.String(); got != "error: a.md: bad [required-fields]" {
		t.Errorf("String() = %q", got)
	}
	i.Line = 3
	if got := i.String(); got != "error: a.md:3: bad [required-fields]" {
		t.Errorf("String() with line = %q", got)
	}
}

func TestEngine_AddRule(t *testing.T) {
	engine := NewEngine()
	if len(engine.Rules()) != 0 {
		t.Fatal("new engine should have no rules")
	}
	engine.AddRule(RequiredFieldsRule{})
	if len(engine.Rules()) != 1 {
		t.Errorf("rules = %d", len(engine.Rules()))
	}
}
