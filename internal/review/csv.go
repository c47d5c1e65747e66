package review

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Recognized batch columns. Anything else travels through as-is in the
// record's extra map and reappears in exports.
const (
	colDecisionID  = "decision_id"
	colPredArticle = "pred_art"
	colArticleText = "article_text"
	colChunkText   = "text"
	colImplicit    = "implicit"
	colReview      = "revoir"
)

var baseColumns = []string{colDecisionID, colPredArticle, colArticleText, colChunkText, colImplicit, colReview}

type batchRow struct {
	decisionID  string
	predArticle string
	articleText string
	chunkText   string
	implicit    string
	needsReview bool
	extra       string // JSON object of unrecognized columns
}

// parseBatchCSV parses an uploaded annotation batch. The header row is
// required and must contain a decision_id column; implicit and revoir are
// optional and start out empty, matching a batch that has not been worked
// on yet.
func parseBatchCSV(payload []byte) ([]batchRow, error) {
	reader := csv.NewReader(bytes.NewReader(payload))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &ValidationError{Field: "file", Message: "empty CSV file"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	if _, ok := columns[colDecisionID]; !ok {
		return nil, &ValidationError{Field: colDecisionID, Message: "column is required"}
	}

	known := make(map[string]bool, len(baseColumns))
	for _, name := range baseColumns {
		known[name] = true
	}

	var rows []batchRow
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", len(rows)+2, err)
		}

		get := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(fields) {
				return ""
			}
			return fields[i]
		}

		extra := make(map[string]string)
		for name, i := range columns {
			if known[name] || i >= len(fields) {
				continue
			}
			extra[name] = fields[i]
		}
		extraJSON, err := json.Marshal(extra)
		if err != nil {
			return nil, fmt.Errorf("failed to encode extra columns: %w", err)
		}

		rows = append(rows, batchRow{
			decisionID:  get(colDecisionID),
			predArticle: get(colPredArticle),
			articleText: get(colArticleText),
			chunkText:   get(colChunkText),
			implicit:    normalizeLabel(get(colImplicit)),
			needsReview: isTruthy(get(colReview)),
			extra:       string(extraJSON),
		})
	}

	return rows, nil
}

// ExportCSV writes the full batch, with current labels, as CSV. Unrecognized
// input columns reappear after the base columns, sorted by name.
func (s *reviewService) ExportCSV(ctx context.Context, w io.Writer) error {
	records, err := s.records.ListAll(ctx)
	if err != nil {
		return err
	}

	extras := make([]map[string]string, len(records))
	extraKeys := make(map[string]bool)
	for i, rec := range records {
		m := make(map[string]string)
		if rec.Extra != "" {
			if err := json.Unmarshal([]byte(rec.Extra), &m); err != nil {
				return fmt.Errorf("failed to decode extra columns of record %s: %w", rec.ID, err)
			}
		}
		extras[i] = m
		for k := range m {
			extraKeys[k] = true
		}
	}
	sortedExtra := make([]string, 0, len(extraKeys))
	for k := range extraKeys {
		sortedExtra = append(sortedExtra, k)
	}
	sort.Strings(sortedExtra)

	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string{}, baseColumns...), sortedExtra...)); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i, rec := range records {
		review := ""
		if rec.NeedsReview {
			review = "yes"
		}
		row := []string{rec.DecisionID, rec.PredArticle, rec.ArticleText, rec.ChunkText, rec.Implicit, review}
		for _, k := range sortedExtra {
			row = append(row, extras[i][k])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// normalizeLabel maps previously-exported label values onto the canonical
// set. French values appear in batches produced by earlier tooling.
func normalizeLabel(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "oui":
		return LabelYes
	case "no", "non":
		return LabelNo
	case "unsure", "je ne sais pas":
		return LabelUnsure
	default:
		return ""
	}
}

func isTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "oui", "1", "true":
		return true
	default:
		return false
	}
}
