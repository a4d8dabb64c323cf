package index

// RecordIndex defines the interface for record indexing operations.
// Consumers should depend on this interface rather than the concrete
// *DB type to facilitate testing with mocks.
type RecordIndex interface {
	UpsertRecord(r RecordRow, body string, related []string) error
	DeleteRecordByPath(path string) error
	GetRecord(id string) (*RecordRow, error)
	ListRecords(limit, offset int, status, category, tag string) ([]RecordRow, int, error)
	Search(query string, limit int) ([]SearchResult, error)
	RelatedTo(target string) ([]string, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies RecordIndex at compile time.
var _ RecordIndex = (*DB)(nil)
