package index

// CaptureIndex defines the interface for capture-index operations.
// Consumers should depend on this interface rather than the concrete
// *DB type to facilitate testing with mocks.
type CaptureIndex interface {
	Upsert(c CaptureRow, body string, links []string) error
	Recent(limit int) ([]CaptureRow, error)
	Search(query string, limit int) ([]SearchResult, error)
	Linking(term string) ([]string, error)
	Close() error
}

// Verify *DB satisfies CaptureIndex at compile time.
var _ CaptureIndex = (*DB)(nil)
