package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore implements Store using PostgreSQL, for deployments where
// several instances share one audit trail. The schema is created via
// migrations (see MigrationRunner), not at open time.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an existing database handle.
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromURL opens a connection pool and wraps it.
func NewPostgresStoreFromURL(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store, err := NewPostgresStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Save persists one usage record.
func (s *PostgresStore) Save(ctx context.Context, record *Record) error {
	tallies, err := json.Marshal(record.LabelTallies)
	if err != nil {
		return fmt.Errorf("failed to marshal label tallies: %w", err)
	}

	now := time.Now()
	query := `
		INSERT INTO usage_audit (request_id, drug_count, label_tallies, parse_success, latency_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err = s.db.QueryRowContext(ctx, query,
		record.RequestID, record.DrugCount, string(tallies),
		record.ParseSuccess, record.LatencyMS, now,
	).Scan(&record.ID)
	if err != nil {
		return fmt.Errorf("failed to save audit record: %w", err)
	}
	record.CreatedAt = now
	return nil
}

// Recent returns the newest records, most recent first.
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]*Record, error) {
	query := `
		SELECT id, request_id, drug_count, label_tallies, parse_success, latency_ms, created_at
		FROM usage_audit
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Count returns the total number of stored records.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM usage_audit").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count audit records: %w", err)
	}
	return count, nil
}

// Close closes the underlying database.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
