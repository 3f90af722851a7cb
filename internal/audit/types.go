// Package audit provides operational usage records for analysis requests.
// Records hold telemetry only (request id, tallies, latency), never genomic
// data or per-drug results, so the pipeline itself stays stateless.
package audit

import (
	"context"
	"time"
)

// Record is one analysis-request usage entry.
type Record struct {
	ID           int64          `json:"id,omitempty"`
	RequestID    string         `json:"request_id"`
	DrugCount    int            `json:"drug_count"`
	LabelTallies map[string]int `json:"label_tallies"` // risk label -> count
	ParseSuccess bool           `json:"parse_success"`
	LatencyMS    int64          `json:"latency_ms"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Store defines the usage-audit storage operations.
type Store interface {
	// Save persists one usage record.
	Save(ctx context.Context, record *Record) error

	// Recent returns the newest records, most recent first.
	Recent(ctx context.Context, limit int) ([]*Record, error)

	// Count returns the total number of stored records.
	Count(ctx context.Context) (int64, error)

	// Close releases store resources.
	Close() error
}

// NopStore discards all records; used when auditing is disabled.
type NopStore struct{}

func (NopStore) Save(context.Context, *Record) error            { return nil }
func (NopStore) Recent(context.Context, int) ([]*Record, error) { return nil, nil }
func (NopStore) Count(context.Context) (int64, error)           { return 0, nil }
func (NopStore) Close() error                                   { return nil }
