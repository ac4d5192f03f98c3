package vectordb

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/tiendabot/salesrag-go/internal/domain/entities"
)

// PostgresStore persists chunk records in PostgreSQL with the pgvector
// extension. Retrieval stays an exhaustive scan through the same port;
// an indexed nearest-neighbor query can replace it behind this adapter
// without touching the orchestrator.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to the database at dsn and ensures the
// schema exists.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "pinging database")
	}

	store := &PostgresStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "initializing schema")
	}
	return store, nil
}

func (s *PostgresStore) initSchema() error {
	schema := `
	CREATE EXTENSION IF NOT EXISTS vector;
	CREATE TABLE IF NOT EXISTS product_chunks (
		id TEXT PRIMARY KEY,
		product_code TEXT NOT NULL,
		content TEXT NOT NULL,
		chunk_index INTEGER NOT NULL,
		embedding vector NOT NULL,
		created_at TIMESTAMPTZ DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_product_chunks_code ON product_chunks(product_code);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Add bulk-inserts records inside one transaction.
func (s *PostgresStore) Add(ctx context.Context, records []entities.ChunkRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO product_chunks (id, product_code, content, chunk_index, embedding)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return errors.Wrap(err, "preparing statement")
	}
	defer stmt.Close()

	for _, record := range records {
		vector := pgvector.NewVector(record.Embedding)
		if _, err := stmt.ExecContext(ctx,
			record.ID,
			record.ProductCode,
			record.Text,
			record.Index,
			vector,
		); err != nil {
			return errors.Wrapf(err, "inserting chunk %s", record.ID)
		}
	}
	return errors.Wrap(tx.Commit(), "committing")
}

// GetAll returns every stored record in insertion order.
func (s *PostgresStore) GetAll(ctx context.Context) ([]entities.ChunkRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_code, content, chunk_index, embedding
		FROM product_chunks
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, errors.Wrap(err, "querying chunks")
	}
	defer rows.Close()

	var records []entities.ChunkRecord
	for rows.Next() {
		var record entities.ChunkRecord
		var vector pgvector.Vector
		if err := rows.Scan(&record.ID, &record.ProductCode, &record.Text, &record.Index, &vector); err != nil {
			return nil, errors.Wrap(err, "scanning row")
		}
		record.Embedding = vector.Slice()
		records = append(records, record)
	}
	return records, rows.Err()
}

// Count returns the number of stored records.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM product_chunks").Scan(&count)
	return count, errors.Wrap(err, "counting chunks")
}

// Close closes the underlying database.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
