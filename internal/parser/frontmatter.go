package parser

import (
	"strings"

	"github.com/starford/ansuz/internal/apperr"
)

const delim = "---"

// ExtractHeader splits raw file content into its metadata block and
// markdown body. The opening delimiter must sit at byte offset 0 and the
// closing delimiter must start a line. Both halves are returned with
// surrounding whitespace trimmed.
//
// Known limitation: the first newline-prefixed "---" terminates the
// block, so a metadata value containing a line that is exactly "---"
// ends the header early. Quoted values with embedded "---" mid-line are
// unaffected.
func ExtractHeader(path, content string) (header, body string, err error) {
	rest, ok := strings.CutPrefix(content, delim)
	if !ok {
		return "", "", &apperr.MalformedHeaderError{
			Path:   path,
			Reason: "missing opening delimiter (---)",
		}
	}

	idx := strings.Index(rest, "\n"+delim)
	if idx < 0 {
		return "", "", &apperr.MalformedHeaderError{
			Path:   path,
			Reason: "missing closing delimiter (---)",
		}
	}

	header = strings.TrimSpace(rest[:idx])
	body = strings.TrimSpace(rest[idx+1+len(delim):])
	return header, body, nil
}
