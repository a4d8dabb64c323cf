// Package markdown renders record bodies to HTML and to a flattened
// plain-text form for search indexing.
package markdown

import (
	"bytes"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Renderer converts markdown bodies. It is stateless and safe to share
// across goroutines.
type Renderer struct {
	engine goldmark.Markdown
}

// NewRenderer builds a renderer with tables, strikethrough, task lists,
// and heading attributes enabled. Raw HTML in the source is escaped by
// the engine; callers never need to sanitize the output themselves.
func NewRenderer() *Renderer {
	return &Renderer{
		engine: goldmark.New(
			goldmark.WithExtensions(
				extension.Table,
				extension.Strikethrough,
				extension.TaskList,
			),
			goldmark.WithParserOptions(
				parser.WithHeadingAttribute(),
			),
		),
	}
}

// ToHTML renders a markdown body to HTML. Rendering never fails: if the
// engine cannot convert, the body is degraded to escaped literal text.
func (r *Renderer) ToHTML(body string) string {
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(body), &buf); err != nil {
		return "<p>" + html.EscapeString(body) + "</p>\n"
	}
	return buf.String()
}

// ToPlainText flattens a markdown body to a single whitespace-normalized
// line for indexing. Textual content and inline code spans are kept,
// fenced and indented code block contents are dropped, and line breaks
// collapse to single spaces. The function is idempotent on its own
// output and degrades to literal text rather than failing.
func (r *Renderer) ToPlainText(body string) string {
	source := []byte(body)
	doc := r.engine.Parser().Parse(text.NewReader(source))

	var b strings.Builder
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			b.Write(v.Segment.Value(source))
			b.WriteByte(' ')
		case *ast.String:
			b.Write(v.Value)
			b.WriteByte(' ')
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return normalizeSpace(body)
	}
	return normalizeSpace(b.String())
}

// normalizeSpace collapses all whitespace runs to single spaces and
// trims the ends.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
