package vectordb

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/pkg/errors"

	"github.com/tiendabot/salesrag-go/internal/domain/entities"
)

// SQLiteStore persists chunk records in a local SQLite database. It
// keeps catalog data across restarts during development; durability is
// not a guarantee of the service.
type SQLiteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the store under dataPath.
func NewSQLiteStore(dataPath string) (*SQLiteStore, error) {
	if dataPath == "" {
		dataPath = "./data"
	}
	if err := os.MkdirAll(dataPath, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating data directory")
	}

	db, err := sql.Open("sqlite3", filepath.Join(dataPath, "chunks.db"))
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "initializing schema")
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS product_chunks (
		id TEXT PRIMARY KEY,
		product_code TEXT NOT NULL,
		content TEXT NOT NULL,
		chunk_index INTEGER NOT NULL,
		embedding BLOB NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_product_code ON product_chunks(product_code);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Add bulk-inserts records inside one transaction.
func (s *SQLiteStore) Add(ctx context.Context, records []entities.ChunkRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO product_chunks (id, product_code, content, chunk_index, embedding)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return errors.Wrap(err, "preparing statement")
	}
	defer stmt.Close()

	for _, record := range records {
		embeddingJSON, err := json.Marshal(record.Embedding)
		if err != nil {
			return errors.Wrap(err, "encoding embedding")
		}
		if _, err := stmt.ExecContext(ctx,
			record.ID,
			record.ProductCode,
			record.Text,
			record.Index,
			embeddingJSON,
		); err != nil {
			return errors.Wrapf(err, "inserting chunk %s", record.ID)
		}
	}
	return tx.Commit()
}

// GetAll returns every stored record in insertion order.
func (s *SQLiteStore) GetAll(ctx context.Context) ([]entities.ChunkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_code, content, chunk_index, embedding
		FROM product_chunks
		ORDER BY rowid
	`)
	if err != nil {
		return nil, errors.Wrap(err, "querying chunks")
	}
	defer rows.Close()

	var records []entities.ChunkRecord
	for rows.Next() {
		var record entities.ChunkRecord
		var embeddingJSON []byte
		if err := rows.Scan(&record.ID, &record.ProductCode, &record.Text, &record.Index, &embeddingJSON); err != nil {
			return nil, errors.Wrap(err, "scanning row")
		}
		if err := json.Unmarshal(embeddingJSON, &record.Embedding); err != nil {
			return nil, errors.Wrapf(err, "decoding embedding for chunk %s", record.ID)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Count returns the number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM product_chunks").Scan(&count)
	return count, err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
