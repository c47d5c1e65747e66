// Package review drives the annotation loop: it owns the pointer into the
// list of records still awaiting a decision, applies operator labels, and
// keeps an autosaved export on disk so progress survives a crash.
package review

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_service.go -package=mocks -mock_names=Service=MockService lexlabel/internal/review Service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"lexlabel/internal/contextutil"
	"lexlabel/internal/storage"
)

// Labels an operator can apply to a record. Revisit does not answer the
// question; it flags the record to come back around at the end of the loop.
const (
	LabelYes     = "yes"
	LabelNo      = "no"
	LabelUnsure  = "unsure"
	LabelRevisit = "revisit"
)

// Progress summarizes how far the operator has gotten through the batch.
type Progress struct {
	Total     int
	Remaining int
}

// Item is what the review loop hands the operator next. When every record
// has been decided, Done is set and Record is nil.
type Item struct {
	Done     bool
	Record   *storage.ReviewRecord
	Progress Progress
}

// ImportSummary reports the outcome of a batch import.
type ImportSummary struct {
	BatchID   int
	Filename  string
	Total     int
	Remaining int
	Reused    bool // payload matched the current batch; progress kept
}

// Service provides the annotation review loop.
type Service interface {
	// ImportCSV ingests an annotation batch. Re-importing a byte-identical
	// payload keeps the current batch and its progress; anything else
	// replaces all records and restarts the loop.
	ImportCSV(ctx context.Context, filename string, r io.Reader) (ImportSummary, error)
	// Next returns the record the operator should look at now.
	Next(ctx context.Context) (Item, error)
	// Label applies a label to a record and returns the next item.
	Label(ctx context.Context, recordID, label string) (Item, error)
	// Record returns a single record by id.
	Record(ctx context.Context, recordID string) (*storage.ReviewRecord, error)
	// Progress returns total and remaining counts.
	Progress(ctx context.Context) (Progress, error)
	// ExportCSV writes the full batch, with current labels, as CSV.
	ExportCSV(ctx context.Context, w io.Writer) error
	// ExportFilename returns a timestamped name for a CSV download.
	ExportFilename() string
}

// reviewService implements Service.
type reviewService struct {
	batches      storage.BatchStore
	records      storage.RecordStore
	autosavePath string

	mu  sync.Mutex
	ptr int // position within the pending list
}

// NewService creates a new review Service. autosavePath may be empty to
// disable autosaving.
func NewService(batches storage.BatchStore, records storage.RecordStore, autosavePath string) Service {
	return &reviewService{
		batches:      batches,
		records:      records,
		autosavePath: autosavePath,
	}
}

// ImportCSV ingests an annotation batch.
func (s *reviewService) ImportCSV(ctx context.Context, filename string, r io.Reader) (ImportSummary, error) {
	logger := contextutil.LoggerFromContext(ctx)

	payload, err := io.ReadAll(r)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("failed to read upload: %w", err)
	}

	sum := sha256.Sum256(payload)
	hash := hex.EncodeToString(sum[:])

	latest, err := s.batches.Latest(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return ImportSummary{}, fmt.Errorf("failed to look up current batch: %w", err)
	}
	if latest != nil && latest.Hash == hash {
		total, remaining, err := s.records.Counts(ctx)
		if err != nil {
			return ImportSummary{}, err
		}
		logger.InfoContext(ctx, "batch already imported, keeping progress", "batch_id", latest.ID, "hash", hash)
		return ImportSummary{
			BatchID:   latest.ID,
			Filename:  latest.Filename,
			Total:     total,
			Remaining: remaining,
			Reused:    true,
		}, nil
	}

	rows, err := parseBatchCSV(payload)
	if err != nil {
		return ImportSummary{}, err
	}

	// A new payload replaces the current batch wholesale, like loading a
	// fresh annotation file replaces the working table.
	if err := s.records.DeleteAll(ctx); err != nil {
		return ImportSummary{}, err
	}
	if err := s.batches.DeleteAll(ctx); err != nil {
		return ImportSummary{}, err
	}
	batch, err := s.batches.Create(ctx, hash, filename)
	if err != nil {
		return ImportSummary{}, err
	}

	for i, row := range rows {
		rec := &storage.ReviewRecord{
			BatchID:     batch.ID,
			RowIndex:    i,
			DecisionID:  row.decisionID,
			PredArticle: row.predArticle,
			ArticleText: row.articleText,
			ChunkText:   row.chunkText,
			Implicit:    row.implicit,
			NeedsReview: row.needsReview,
			Extra:       row.extra,
		}
		if err := s.records.Insert(ctx, rec); err != nil {
			return ImportSummary{}, fmt.Errorf("failed to store row %d: %w", i, err)
		}
	}

	s.mu.Lock()
	s.ptr = 0
	s.mu.Unlock()

	total, remaining, err := s.records.Counts(ctx)
	if err != nil {
		return ImportSummary{}, err
	}

	logger.InfoContext(ctx, "batch imported", "batch_id", batch.ID, "filename", filename, "total", total, "remaining", remaining)
	return ImportSummary{
		BatchID:   batch.ID,
		Filename:  filename,
		Total:     total,
		Remaining: remaining,
	}, nil
}

// Next returns the record the operator should look at now.
func (s *reviewService) Next(ctx context.Context) (Item, error) {
	pending, err := s.records.ListPending(ctx)
	if err != nil {
		return Item{}, err
	}
	total, _, err := s.records.Counts(ctx)
	if err != nil {
		return Item{}, err
	}

	progress := Progress{Total: total, Remaining: len(pending)}
	if len(pending) == 0 {
		return Item{Done: true, Progress: progress}, nil
	}

	s.mu.Lock()
	if s.ptr >= len(pending) {
		s.ptr = 0
	}
	rec := pending[s.ptr]
	s.mu.Unlock()

	return Item{Record: rec, Progress: progress}, nil
}

// Label applies a label to a record and returns the next item.
func (s *reviewService) Label(ctx context.Context, recordID, label string) (Item, error) {
	logger := contextutil.LoggerFromContext(ctx)

	switch label {
	case LabelYes, LabelNo, LabelUnsure, LabelRevisit:
	default:
		return Item{}, &ValidationError{Field: "label", Message: fmt.Sprintf("unknown label %q", label)}
	}

	if label == LabelRevisit {
		if err := s.records.MarkForReview(ctx, recordID); err != nil {
			return Item{}, err
		}
		// The record stays in the pending list, so move past it; the
		// pointer wraps back to it after the rest of the loop.
		s.mu.Lock()
		s.ptr++
		s.mu.Unlock()
	} else {
		// The labeled record leaves the pending list and the next one
		// slides into the pointer's position.
		if err := s.records.SetLabel(ctx, recordID, label); err != nil {
			return Item{}, err
		}
	}

	logger.InfoContext(ctx, "record labeled", "record_id", recordID, "label", label)
	s.autosave(ctx)

	return s.Next(ctx)
}

// Record returns a single record by id.
func (s *reviewService) Record(ctx context.Context, recordID string) (*storage.ReviewRecord, error) {
	return s.records.GetByID(ctx, recordID)
}

// Progress returns total and remaining counts.
func (s *reviewService) Progress(ctx context.Context) (Progress, error) {
	total, remaining, err := s.records.Counts(ctx)
	if err != nil {
		return Progress{}, err
	}
	return Progress{Total: total, Remaining: remaining}, nil
}

// ExportFilename returns a timestamped name for a CSV download.
func (s *reviewService) ExportFilename() string {
	return "annotations_updated_" + time.Now().UTC().Format("20060102_150405") + ".csv"
}

// autosave writes the current batch to the configured autosave path.
// Failures are logged, never surfaced: losing an autosave must not block
// the operator (the authoritative state is in the database).
func (s *reviewService) autosave(ctx context.Context) {
	if s.autosavePath == "" {
		return
	}
	logger := contextutil.LoggerFromContext(ctx)

	f, err := os.Create(s.autosavePath)
	if err != nil {
		logger.WarnContext(ctx, "autosave failed", "path", s.autosavePath, "error", err)
		return
	}
	defer func() {
		_ = f.Close()
	}()

	if err := s.ExportCSV(ctx, f); err != nil {
		logger.WarnContext(ctx, "autosave failed", "path", s.autosavePath, "error", err)
	}
}
