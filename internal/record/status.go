package record

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the lifecycle state of a decision record.
type Status int

// Lifecycle states. Proposed is the zero value and the default for
// absent or unrecognised frontmatter values.
const (
	StatusProposed Status = iota
	StatusAccepted
	StatusDeprecated
	StatusSuperseded
)

// AllStatuses returns every lifecycle state in declaration order.
func AllStatuses() []Status {
	return []Status{StatusProposed, StatusAccepted, StatusDeprecated, StatusSuperseded}
}

// String returns the canonical lowercase form.
func (s Status) String() string {
	switch s {
	case StatusAccepted:
		return "accepted"
	case StatusDeprecated:
		return "deprecated"
	case StatusSuperseded:
		return "superseded"
	default:
		return "proposed"
	}
}

// CSSClass returns the stylesheet class used by the HTML viewer.
func (s Status) CSSClass() string {
	return "status-" + s.String()
}

// Color returns the display color for this status in hex format.
func (s Status) Color() string {
	switch s {
	case StatusAccepted:
		return "#10b981"
	case StatusDeprecated:
		return "#ef4444"
	case StatusSuperseded:
		return "#6b7280"
	default:
		return "#f59e0b"
	}
}

// ParseStatus matches s case-insensitively against the four canonical
// names. Unknown values are an error; lenient defaulting is the
// decoder's job, not this function's.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(s) {
	case "proposed":
		return StatusProposed, nil
	case "accepted":
		return StatusAccepted, nil
	case "deprecated":
		return StatusDeprecated, nil
	case "superseded":
		return StatusSuperseded, nil
	}
	return StatusProposed, fmt.Errorf("record: invalid status %q", s)
}

// MarshalJSON encodes the status as its canonical lowercase string.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a canonical status string.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
