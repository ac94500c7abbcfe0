package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/zyaga/clipnote/internal/apperr"
)

func tempInbox(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempInbox(t)
	content := []byte("# メモ\n本文\n")
	if err := s.Write("note.md", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("note.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestReadMissingIsNotFound(t *testing.T) {
	s := tempInbox(t)
	_, err := s.Read("missing.md")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestExists(t *testing.T) {
	s := tempInbox(t)
	if s.Exists("a.md") {
		t.Error("Exists before write")
	}
	_ = s.Write("a.md", []byte("x"))
	if !s.Exists("a.md") {
		t.Error("Exists after write")
	}
}

func TestWriteUnique(t *testing.T) {
	s := tempInbox(t)

	name, err := s.WriteUnique("2025-01-02_13-00-00_work_memo", []byte("v1"))
	if err != nil {
		t.Fatalf("WriteUnique: %v", err)
	}
	if name != "2025-01-02_13-00-00_work_memo.md" {
		t.Errorf("name = %q", name)
	}

	// Collisions probe numbered suffixes in order.
	name2, err := s.WriteUnique("2025-01-02_13-00-00_work_memo", []byte("v2"))
	if err != nil {
		t.Fatalf("WriteUnique second: %v", err)
	}
	if name2 != "2025-01-02_13-00-00_work_memo_1.md" {
		t.Errorf("name2 = %q", name2)
	}
	name3, _ := s.WriteUnique("2025-01-02_13-00-00_work_memo", []byte("v3"))
	if name3 != "2025-01-02_13-00-00_work_memo_2.md" {
		t.Errorf("name3 = %q", name3)
	}

	// Each file keeps its own content.
	got, _ := s.Read(name)
	if string(got) != "v1" {
		t.Errorf("first file content = %q", got)
	}
	got2, _ := s.Read(name2)
	if string(got2) != "v2" {
		t.Errorf("second file content = %q", got2)
	}
}

func TestWriteUniqueProbesPastManyCollisions(t *testing.T) {
	s := tempInbox(t)
	_ = s.Write("stem.md", []byte("x"))
	for i := 1; i <= 10; i++ {
		_ = s.Write(fmt.Sprintf("stem_%d.md", i), []byte("x"))
	}
	name, err := s.WriteUnique("stem", []byte("y"))
	if err != nil {
		t.Fatalf("WriteUnique: %v", err)
	}
	if name != "stem_11.md" {
		t.Errorf("name = %q", name)
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempInbox(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.md",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
	}
}

func TestAtomicWriteNoCorruption(t *testing.T) {
	s := tempInbox(t)
	original := []byte("original content")
	_ = s.Write("atomic.md", original)

	updated := []byte("updated content")
	if err := s.Write("atomic.md", updated); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("atomic.md")
	if string(got) != string(updated) {
		t.Errorf("expected updated content, got %q", got)
	}

	// Confirm no leftover temp files.
	matches, _ := filepath.Glob(filepath.Join(s.root, ".clipnote-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestList(t *testing.T) {
	s := tempInbox(t)
	_ = s.Write("a.md", []byte("a"))
	_ = s.Write("b.md", []byte("b"))
	_ = s.Write("history.json", []byte("not md"))

	items, err := s.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("len = %d, want 2", len(items))
	}
	for _, it := range items {
		if it.Checksum == "" {
			t.Errorf("missing checksum for %s", it.Path)
		}
	}
}

func TestNewFSNonExistentDir(t *testing.T) {
	_, err := NewFS("/tmp/clipnote-does-not-exist-" + t.Name())
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFSFileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "clipnote-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
