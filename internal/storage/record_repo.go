package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// RecordStore defines the interface for review-record storage operations.
type RecordStore interface {
	// Insert inserts a single record. A missing ID is filled with a new UUID.
	Insert(ctx context.Context, rec *ReviewRecord) error
	// GetByID gets a record by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*ReviewRecord, error)
	// ListPending returns records still awaiting a decision
	// (unlabeled or flagged for another look), ordered by row_index.
	ListPending(ctx context.Context) ([]*ReviewRecord, error)
	// ListAll returns every record ordered by row_index.
	ListAll(ctx context.Context) ([]*ReviewRecord, error)
	// SetLabel stores the operator's label and clears the review flag.
	SetLabel(ctx context.Context, id, label string) error
	// MarkForReview flags the record to come back around in the loop.
	MarkForReview(ctx context.Context, id string) error
	// Counts returns the total number of records and how many are pending.
	Counts(ctx context.Context) (total, remaining int, err error)
	// DeleteAll removes every record.
	DeleteAll(ctx context.Context) error
}

const recordColumns = "id, batch_id, row_index, decision_id, pred_article, article_text, chunk_text, implicit, needs_review, extra, updated_at"

// RecordRepo provides methods for review-record operations.
// It implements the RecordStore interface.
type RecordRepo struct {
	db *sql.DB
}

// NewRecordRepo creates a new RecordRepo.
func NewRecordRepo(db *sql.DB) *RecordRepo {
	return &RecordRepo{db: db}
}

// Insert inserts a single record. A missing ID is filled with a new UUID.
func (r *RecordRepo) Insert(ctx context.Context, rec *ReviewRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	extra := rec.Extra
	if extra == "" {
		extra = "{}"
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO records (id, batch_id, row_index, decision_id, pred_article, article_text, chunk_text, implicit, needs_review, extra)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.BatchID, rec.RowIndex, rec.DecisionID, rec.PredArticle,
		rec.ArticleText, rec.ChunkText, rec.Implicit, boolToInt(rec.NeedsReview), extra,
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// GetByID gets a record by its ID. Returns ErrNotFound if not found.
func (r *RecordRepo) GetByID(ctx context.Context, id string) (*ReviewRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM records WHERE id = ?", id,
	)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}
	return rec, nil
}

// ListPending returns records still awaiting a decision, ordered by row_index.
func (r *RecordRepo) ListPending(ctx context.Context) ([]*ReviewRecord, error) {
	return r.list(ctx,
		"SELECT "+recordColumns+" FROM records WHERE implicit = '' OR needs_review = 1 ORDER BY row_index",
	)
}

// ListAll returns every record ordered by row_index.
func (r *RecordRepo) ListAll(ctx context.Context) ([]*ReviewRecord, error) {
	return r.list(ctx, "SELECT "+recordColumns+" FROM records ORDER BY row_index")
}

func (r *RecordRepo) list(ctx context.Context, query string) ([]*ReviewRecord, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []*ReviewRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// SetLabel stores the operator's label and clears the review flag.
func (r *RecordRepo) SetLabel(ctx context.Context, id, label string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE records SET implicit = ?, needs_review = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		label, id,
	)
	if err != nil {
		return fmt.Errorf("failed to set label: %w", err)
	}
	return requireRow(res)
}

// MarkForReview flags the record to come back around in the loop.
func (r *RecordRepo) MarkForReview(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE records SET needs_review = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark record for review: %w", err)
	}
	return requireRow(res)
}

// Counts returns the total number of records and how many are pending.
func (r *RecordRepo) Counts(ctx context.Context) (total, remaining int, err error) {
	err = r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COUNT(CASE WHEN implicit = '' OR needs_review = 1 THEN 1 END) FROM records",
	).Scan(&total, &remaining)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count records: %w", err)
	}
	return total, remaining, nil
}

// DeleteAll removes every record.
func (r *RecordRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM records"); err != nil {
		return fmt.Errorf("failed to delete records: %w", err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*ReviewRecord, error) {
	var rec ReviewRecord
	var needsReview int
	var updatedAtStr string

	err := s.Scan(&rec.ID, &rec.BatchID, &rec.RowIndex, &rec.DecisionID,
		&rec.PredArticle, &rec.ArticleText, &rec.ChunkText, &rec.Implicit,
		&needsReview, &rec.Extra, &updatedAtStr)
	if err != nil {
		return nil, err
	}

	rec.NeedsReview = needsReview != 0
	rec.UpdatedAt, err = parseSQLiteTime(updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at timestamp: %w", err)
	}

	return &rec, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
