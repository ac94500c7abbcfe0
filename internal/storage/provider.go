// Package storage defines the inbox file-system abstraction.
package storage

import "time"

// NoteMeta is a lightweight representation returned by list operations.
type NoteMeta struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Provider is the interface for inbox file operations.
type Provider interface {
	// Exists reports whether a file is present at path (relative to root).
	Exists(path string) bool
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// WriteUnique writes content under "<stem>.md", probing numeric
	// suffixes until the name is free, and returns the name used.
	WriteUnique(stem string, content []byte) (string, error)
	// List returns metadata for every .md file under dir.
	List(dir string) ([]NoteMeta, error)
}

// Verify *FS satisfies Provider at compile time.
var _ Provider = (*FS)(nil)
