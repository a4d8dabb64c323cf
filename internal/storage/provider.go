// Package storage defines the archive file-system abstraction. The
// pipeline consumes files through it and presentation collaborators
// write artifacts back through it, so the core never touches the
// filesystem directly.
package storage

import "time"

// FileMeta is lightweight metadata for one archive file.
type FileMeta struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Provider is the interface for archive file operations. All paths are
// relative to the archive root.
type Provider interface {
	// List returns metadata for every .md file under dir.
	List(dir string) ([]FileMeta, error)
	// Glob returns relative paths under dir whose slash-normalized
	// form matches pattern. A leading "**/" in the pattern matches any
	// directory depth, including none.
	Glob(dir, pattern string) ([]string, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
}
