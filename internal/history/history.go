// Package history persists the content-hash dedupe log that gates
// duplicate captures across process restarts.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TimeFormat is the timestamp layout used inside the history document.
const TimeFormat = "2006-01-02 15:04:05"

// Record is one saved capture: the digest of the normalized text, when
// it was saved, and the note file it produced.
type Record struct {
	SHA256    string `json:"sha256"`
	CreatedAt string `json:"created_at"`
	Filename  string `json:"filename"`
}

type document struct {
	UpdatedAt string   `json:"updated_at"`
	Records   []Record `json:"records"`
}

// Store owns the on-disk history document plus an in-memory hash set
// kept in sync with the record log for O(1) membership tests.
type Store struct {
	path    string
	max     int
	records []Record
	hashes  map[string]struct{}
}

// Open loads the history at path, compacts it, and rewrites it so a
// corrupt, duplicated or oversized document is repaired at startup.
// A missing or malformed document starts an empty history; startup
// never fails on bad content, only on the rewrite itself.
func Open(path string, max int) (*Store, error) {
	s := &Store{path: path, max: max}
	s.records = s.compact(load(path))
	s.rebuildIndex()
	if err := s.Save(); err != nil {
		return nil, err
	}
	return s, nil
}

func load(path string) []Record {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	out := make([]Record, 0, len(doc.Records))
	for _, r := range doc.Records {
		if r.SHA256 == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

// compact drops older records sharing a hash with a newer one (scan
// from the end, keep first-seen, reverse back to chronological order)
// and trims to the newest max entries when over capacity.
func (s *Store) compact(records []Record) []Record {
	seen := make(map[string]struct{}, len(records))
	compacted := make([]Record, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		if _, dup := seen[r.SHA256]; dup {
			continue
		}
		seen[r.SHA256] = struct{}{}
		compacted = append(compacted, r)
	}
	for i, j := 0, len(compacted)-1; i < j; i, j = i+1, j-1 {
		compacted[i], compacted[j] = compacted[j], compacted[i]
	}
	if s.max > 0 && len(compacted) > s.max {
		compacted = compacted[len(compacted)-s.max:]
	}
	return compacted
}

func (s *Store) rebuildIndex() {
	s.hashes = make(map[string]struct{}, len(s.records))
	for _, r := range s.records {
		s.hashes[r.SHA256] = struct{}{}
	}
}

// Contains reports whether hash is already recorded.
func (s *Store) Contains(hash string) bool {
	_, ok := s.hashes[hash]
	return ok
}

// Append records a capture and immediately compacts, so the
// no-duplicate-hash and capacity invariants hold after every mutation,
// not just at shutdown.
func (s *Store) Append(rec Record) {
	s.records = s.compact(append(s.records, rec))
	s.rebuildIndex()
}

// Len returns the current record count.
func (s *Store) Len() int { return len(s.records) }

// Records returns a copy of the log in chronological order.
func (s *Store) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Path returns the on-disk location of the history document.
func (s *Store) Path() string { return s.path }

// Save compacts and atomically rewrites the document: a temp file in
// the same directory is fully written, synced, then renamed over the
// target, so the on-disk history is never observed half-written.
func (s *Store) Save() error {
	s.records = s.compact(s.records)
	s.rebuildIndex()

	doc := document{
		UpdatedAt: time.Now().Format(TimeFormat),
		Records:   s.records,
	}
	if doc.Records == nil {
		doc.Records = []Record{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("history: marshal: %w", err)
	}
	return atomicWrite(s.path, append(data, '\n'))
}

func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".clipnote-hist-*")
	if err != nil {
		return fmt.Errorf("history: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("history: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("history: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("history: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("history: rename: %w", err)
	}
	success = true
	return nil
}
