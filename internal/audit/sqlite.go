package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using an embedded SQLite database. It is the
// default backend for single-instance deployments.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (and if needed creates) the database file and schema.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode for better concurrency under parallel requests.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS usage_audit (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		request_id TEXT NOT NULL,
		drug_count INTEGER NOT NULL DEFAULT 0,
		label_tallies TEXT NOT NULL DEFAULT '{}',
		parse_success INTEGER NOT NULL DEFAULT 1,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_usage_audit_request_id ON usage_audit(request_id);
	CREATE INDEX IF NOT EXISTS idx_usage_audit_created_at ON usage_audit(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// Save persists one usage record.
func (s *SQLiteStore) Save(ctx context.Context, record *Record) error {
	tallies, err := json.Marshal(record.LabelTallies)
	if err != nil {
		return fmt.Errorf("failed to marshal label tallies: %w", err)
	}

	now := time.Now()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO usage_audit (request_id, drug_count, label_tallies, parse_success, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, record.RequestID, record.DrugCount, string(tallies), record.ParseSuccess, record.LatencyMS, now)
	if err != nil {
		return fmt.Errorf("failed to save audit record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get insert id: %w", err)
	}
	record.ID = id
	record.CreatedAt = now
	return nil
}

// Recent returns the newest records, most recent first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, request_id, drug_count, label_tallies, parse_success, latency_ms, created_at
		FROM usage_audit
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
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
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM usage_audit").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count audit records: %w", err)
	}
	return count, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanner is an interface over sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (*Record, error) {
	record := &Record{}
	var tallies string

	err := s.Scan(
		&record.ID, &record.RequestID, &record.DrugCount,
		&tallies, &record.ParseSuccess, &record.LatencyMS, &record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tallies), &record.LabelTallies); err != nil {
		return nil, fmt.Errorf("corrupt label tallies: %w", err)
	}
	return record, nil
}
