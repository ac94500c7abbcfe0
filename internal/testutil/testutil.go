// Package testutil provides shared test helpers for setting up inboxes
// and capture databases.
package testutil

import (
	"os"
	"testing"

	"github.com/zyaga/clipnote/internal/history"
	"github.com/zyaga/clipnote/internal/index"
	"github.com/zyaga/clipnote/internal/storage"
	"github.com/zyaga/clipnote/internal/terms"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "clipnote-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestInbox creates a temporary inbox directory with a storage.Provider.
func TestInbox(t *testing.T) (string, storage.Provider) {
	t.Helper()
	inboxDir := t.TempDir()
	store, err := storage.NewFS(inboxDir)
	if err != nil {
		t.Fatal(err)
	}
	return inboxDir, store
}

// TestHistory opens a history store backed by a temp file.
func TestHistory(t *testing.T, max int) *history.Store {
	t.Helper()
	path := t.TempDir() + "/_clip_history.json"
	hist, err := history.Open(path, max)
	if err != nil {
		t.Fatal(err)
	}
	return hist
}

// StaticAnalyzer is a deterministic terms.Analyzer for tests. It maps
// exact input texts to fixed token lists.
type StaticAnalyzer struct {
	Responses map[string][]terms.Token
}

// Tokens returns the canned tokens for text, or nil.
func (a *StaticAnalyzer) Tokens(text string) []terms.Token {
	if a == nil {
		return nil
	}
	return a.Responses[text]
}
