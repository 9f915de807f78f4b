package artifact

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"ctxcore/ctxerr"
)

// SQLiteStore is the pluggable durable backend, grounded on
// internal/context/storage/ (whose StorageProvider/StorageEngine
// interfaces model swappable persistence backends behind the same
// capability interface as the in-memory engine). It is opt-in: callers
// that want durability construct one explicitly and pass it to
// manager.New; manager has no default store of its own.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and migrates) a SQLite-backed artifact table at
// path. Use ":memory:" for a private ephemeral database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &ctxerr.ArtifactStoreFailedError{Op: "open", Key: path, Cause: err}
	}
	const schema = `CREATE TABLE IF NOT EXISTS artifacts (
		key TEXT PRIMARY KEY,
		content BLOB NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &ctxerr.ArtifactStoreFailedError{Op: "migrate", Key: path, Cause: err}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Store(content []byte) (string, error) {
	key := Key(content)
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO artifacts (key, content) VALUES (?, ?)`,
		key, content,
	)
	if err != nil {
		return "", &ctxerr.ArtifactStoreFailedError{Op: "store", Key: key, Cause: err}
	}
	return key, nil
}

func (s *SQLiteStore) Retrieve(key string) ([]byte, error) {
	var content []byte
	err := s.db.QueryRow(`SELECT content FROM artifacts WHERE key = ?`, key).Scan(&content)
	if err == sql.ErrNoRows {
		return nil, notFoundErr(key)
	}
	if err != nil {
		return nil, &ctxerr.ArtifactStoreFailedError{Op: "retrieve", Key: key, Cause: err}
	}
	return content, nil
}

func (s *SQLiteStore) Exists(key string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM artifacts WHERE key = ?`, key).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, &ctxerr.ArtifactStoreFailedError{Op: "exists", Key: key, Cause: err}
	}
	return true, nil
}
