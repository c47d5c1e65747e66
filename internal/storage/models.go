package storage

import "time"

// BatchRecord represents one imported annotation batch. A batch corresponds
// to a single uploaded CSV file; its hash detects re-uploads of the same
// file so operator progress is never thrown away by accident.
type BatchRecord struct {
	ID        int
	Hash      string // SHA-256 hex of the uploaded payload
	Filename  string // Name of the uploaded file, kept for export naming
	CreatedAt time.Time
}

// ReviewRecord is one chunk/article pair awaiting an operator decision.
type ReviewRecord struct {
	ID          string // UUID
	BatchID     int    // Foreign key to batches.id
	RowIndex    int    // Position in the imported file, drives review order
	DecisionID  string // Identifier of the source decision ("num__date")
	PredArticle string // Predicted statute article for this chunk
	ArticleText string // Text of the predicted article
	ChunkText   string // The excerpt the operator reviews
	Implicit    string // "", "yes", "no" or "unsure"
	NeedsReview bool   // Flagged to come back around in the review loop
	Extra       string // JSON object of unrecognized CSV columns, preserved on export
	UpdatedAt   time.Time
}

// Pending reports whether the record still needs an operator decision.
func (r *ReviewRecord) Pending() bool {
	return r.Implicit == "" || r.NeedsReview
}
