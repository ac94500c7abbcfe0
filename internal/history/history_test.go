package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func tempStore(t *testing.T, max int) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "_clip_history.json"), max)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func rec(hash, name string) Record {
	return Record{SHA256: hash, CreatedAt: "2025-01-02 03:04:05", Filename: name}
}

func TestOpenMissingFile(t *testing.T) {
	s := tempStore(t, 10)
	if s.Len() != 0 {
		t.Errorf("Len = %d", s.Len())
	}
	// Open rewrites the document immediately.
	if _, err := os.Stat(s.Path()); err != nil {
		t.Errorf("document not created: %v", err)
	}
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hist.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Open(path, 10)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
	// The corrupt document was repaired on disk.
	data, _ := os.ReadFile(path)
	var doc struct {
		Records []Record `json:"records"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Errorf("repaired document unparsable: %v", err)
	}
}

func TestContainsAndAppend(t *testing.T) {
	s := tempStore(t, 10)
	if s.Contains("h1") {
		t.Error("empty store should not contain h1")
	}
	s.Append(rec("h1", "a.md"))
	if !s.Contains("h1") {
		t.Error("h1 missing after Append")
	}
}

func TestAppendDeduplicatesKeepingNewest(t *testing.T) {
	s := tempStore(t, 10)
	s.Append(rec("h1", "old.md"))
	s.Append(rec("h2", "other.md"))
	s.Append(rec("h1", "new.md"))

	records := s.Records()
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}
	last := records[len(records)-1]
	if last.SHA256 != "h1" || last.Filename != "new.md" {
		t.Errorf("newest h1 record = %+v", last)
	}
}

func TestCapacityTrimsOldest(t *testing.T) {
	s := tempStore(t, 3)
	for i := 0; i < 5; i++ {
		s.Append(rec("h"+strconv.Itoa(i), "f.md"))
	}
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	if s.Contains("h0") || s.Contains("h1") {
		t.Error("oldest records should be gone")
	}
	for _, h := range []string{"h2", "h3", "h4"} {
		if !s.Contains(h) {
			t.Errorf("%s missing", h)
		}
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hist.json")

	s, err := Open(path, 10)
	if err != nil {
		t.Fatal(err)
	}
	s.Append(rec("h1", "a.md"))
	s.Append(rec("h2", "b.md"))
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	s2, err := Open(path, 10)
	if err != nil {
		t.Fatal(err)
	}
	if s2.Len() != 2 || !s2.Contains("h1") || !s2.Contains("h2") {
		t.Errorf("reloaded store: len=%d", s2.Len())
	}
}

func TestSaveDocumentShape(t *testing.T) {
	s := tempStore(t, 10)
	s.Append(rec("abc", "a.md"))
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		UpdatedAt string   `json:"updated_at"`
		Records   []Record `json:"records"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.UpdatedAt == "" {
		t.Error("updated_at empty")
	}
	if len(doc.Records) != 1 || doc.Records[0].SHA256 != "abc" {
		t.Errorf("records = %+v", doc.Records)
	}
}

func TestSaveEmptyRecordsArray(t *testing.T) {
	s := tempStore(t, 10)
	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	// records must serialize as [], not null.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if string(raw["records"]) == "null" {
		t.Error("records serialized as null")
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	s := tempStore(t, 10)
	s.Append(rec("h1", "a.md"))
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}
	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(s.Path()), ".clipnote-hist-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestOpenCompactsOversizedDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hist.json")

	var records []Record
	for i := 0; i < 8; i++ {
		records = append(records, rec("h"+strconv.Itoa(i), "f.md"))
	}
	doc := map[string]any{"updated_at": "2025-01-01 00:00:00", "records": records}
	data, _ := json.Marshal(doc)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path, 5)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 5 {
		t.Errorf("Len = %d, want 5", s.Len())
	}
	if s.Contains("h0") {
		t.Error("oldest record survived compaction")
	}
	if !s.Contains("h7") {
		t.Error("newest record missing")
	}
}
