package index

import (
	"encoding/json"
	"fmt"
	"time"
)

// CaptureRow represents one saved capture in the captures table.
type CaptureRow struct {
	Filename  string
	Title     string
	Category  string
	Checksum  string
	Tags      []string
	CreatedAt time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	Filename string
	Title    string
	Snippet  string
}

// Upsert inserts or replaces a capture, its FTS entry, and its
// wikilink terms within one transaction.
func (db *DB) Upsert(c CaptureRow, body string, links []string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	tagsJSON, _ := json.Marshal(c.Tags)

	_, err = tx.Exec(`
		INSERT INTO captures (filename, title, category, checksum, tags, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(filename) DO UPDATE SET
			title      = excluded.title,
			category   = excluded.category,
			checksum   = excluded.checksum,
			tags       = excluded.tags,
			body       = excluded.body,
			created_at = excluded.created_at
	`, c.Filename, c.Title, c.Category, c.Checksum, string(tagsJSON), body, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert capture: %w", err)
	}

	// FTS upsert (no-op when the FTS5 tag is absent).
	if err := ftsUpsert(tx, c.Filename, c.Title, body, c.Tags); err != nil {
		return err
	}

	// Replace wikilink terms: delete old then bulk insert.
	_, _ = tx.Exec(`DELETE FROM wikilinks WHERE filename = ?`, c.Filename)
	if len(links) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO wikilinks (filename, term) VALUES (?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare link insert: %w", err)
		}
		defer stmt.Close()
		for _, term := range links {
			if _, err := stmt.Exec(c.Filename, term); err != nil {
				return fmt.Errorf("index: insert link: %w", err)
			}
		}
	}

	return tx.Commit()
}

// Recent returns the newest captures, most recent first.
func (db *DB) Recent(limit int) ([]CaptureRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT filename, title, category, checksum, tags, created_at
		FROM captures
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("index: recent: %w", err)
	}
	defer rows.Close()

	var out []CaptureRow
	for rows.Next() {
		var c CaptureRow
		var tagsJSON string
		if err := rows.Scan(&c.Filename, &c.Title, &c.Category, &c.Checksum, &tagsJSON, &c.CreatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(tagsJSON), &c.Tags)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Linking returns the file names of captures whose link-candidate list
// contains term.
func (db *DB) Linking(term string) ([]string, error) {
	rows, err := db.conn.Query(`SELECT filename FROM wikilinks WHERE term = ?`, term)
	if err != nil {
		return nil, fmt.Errorf("index: linking: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
