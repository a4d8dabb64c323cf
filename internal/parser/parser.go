// Package parser turns raw record files into assembled records: it
// extracts the frontmatter header, decodes the metadata leniently, and
// renders the markdown body.
package parser

import (
	"log/slog"
	"path/filepath"

	"github.com/starford/ansuz/internal/markdown"
	"github.com/starford/ansuz/internal/record"
)

// Parser assembles records from raw file content. Safe for concurrent
// use; the embedded Decoder synchronizes its warn-once state.
type Parser struct {
	dec *Decoder
	md  *markdown.Renderer
}

// New creates a parser whose decoder warnings go to logger.
func New(logger *slog.Logger) *Parser {
	return &Parser{
		dec: NewDecoder(logger),
		md:  markdown.NewRenderer(),
	}
}

// Parse extracts, decodes, and renders one record file. The returned
// record is complete and read-only; any failure is one of the typed
// apperr errors and is terminal for this file only.
func (p *Parser) Parse(path, content string) (*record.Record, error) {
	header, body, err := ExtractHeader(path, content)
	if err != nil {
		return nil, err
	}

	meta, err := p.dec.Decode(path, header)
	if err != nil {
		return nil, err
	}

	return &record.Record{
		ID:           record.IDFromPath(path),
		Filename:     filepath.Base(path),
		Path:         path,
		Meta:         meta,
		BodyMarkdown: body,
		BodyHTML:     p.md.ToHTML(body),
		BodyText:     p.md.ToPlainText(body),
	}, nil
}
