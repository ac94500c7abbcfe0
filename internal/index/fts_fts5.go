//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS captures_fts USING fts5(
			filename UNINDEXED,
			title,
			body,
			tags,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, filename, title, body string, tags []string) error {
	_, _ = tx.Exec(`DELETE FROM captures_fts WHERE filename = ?`, filename)
	_, err := tx.Exec(`INSERT INTO captures_fts (filename, title, body, tags) VALUES (?, ?, ?, ?)`,
		filename, title, body, strings.Join(tags, " "))
	if err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

// Search performs an FTS5 full-text search over saved captures.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT filename,
		       title,
		       snippet(captures_fts, 2, '<b>', '</b>', '...', 64)
		FROM captures_fts
		WHERE captures_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Filename, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
