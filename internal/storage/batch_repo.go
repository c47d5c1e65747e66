package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// BatchStore defines the interface for batch storage operations.
type BatchStore interface {
	// Latest returns the most recently created batch.
	// Returns ErrNotFound when no batch has been imported yet.
	Latest(ctx context.Context) (*BatchRecord, error)
	// Create inserts a new batch and returns it with its assigned ID.
	Create(ctx context.Context, hash, filename string) (*BatchRecord, error)
	// DeleteAll removes every batch (and, via cascade, its records).
	DeleteAll(ctx context.Context) error
}

// BatchRepo provides methods for batch operations.
// It implements the BatchStore interface.
type BatchRepo struct {
	db *sql.DB
}

// NewBatchRepo creates a new BatchRepo.
func NewBatchRepo(db *sql.DB) *BatchRepo {
	return &BatchRepo{db: db}
}

// Latest returns the most recently created batch.
func (r *BatchRepo) Latest(ctx context.Context) (*BatchRecord, error) {
	var batch BatchRecord
	var createdAtStr string

	err := r.db.QueryRowContext(ctx,
		"SELECT id, hash, filename, created_at FROM batches ORDER BY id DESC LIMIT 1",
	).Scan(&batch.ID, &batch.Hash, &batch.Filename, &createdAtStr)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query batch: %w", err)
	}

	batch.CreatedAt, err = parseSQLiteTime(createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
	}

	return &batch, nil
}

// Create inserts a new batch and returns it with its assigned ID.
func (r *BatchRepo) Create(ctx context.Context, hash, filename string) (*BatchRecord, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO batches (hash, filename) VALUES (?, ?)",
		hash, filename,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert batch: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read batch id: %w", err)
	}

	return &BatchRecord{
		ID:        int(id),
		Hash:      hash,
		Filename:  filename,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// DeleteAll removes every batch and cascades to its records.
func (r *BatchRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM batches"); err != nil {
		return fmt.Errorf("failed to delete batches: %w", err)
	}
	return nil
}

// parseSQLiteTime parses the DATETIME strings SQLite hands back. Depending
// on how the value was written it may be in either format.
func parseSQLiteTime(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
