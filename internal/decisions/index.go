// Package decisions resolves decision identifiers to the full text of the
// corresponding legal decision. Decisions live on disk as JSON files of the
// form {"text": "..."}; the file name without its extension is the decision
// id (conventionally "num__date").
package decisions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/creachadair/jtree/ast"
	"golang.org/x/text/unicode/norm"
)

// ErrNotFound is returned when no decision file is known for an id.
var ErrNotFound = errors.New("decision not found")

// Index maps decision ids to their files under a root directory and loads
// decision text on demand. It is safe for concurrent use; Watch can update
// the mapping while Resolve is being called.
type Index struct {
	mu     sync.RWMutex
	root   string
	paths  map[string]string // decision id -> absolute file path
	logger *slog.Logger
}

// NewIndex scans root for decision files and returns an index over them.
func NewIndex(root string) (*Index, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access decisions directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("decisions path is not a directory: %s", root)
	}

	ix := &Index{
		root:   root,
		paths:  make(map[string]string),
		logger: slog.Default(),
	}
	if err := ix.scan(); err != nil {
		return nil, err
	}
	return ix, nil
}

// scan walks the root directory and rebuilds the id -> path mapping.
func (ix *Index) scan() error {
	paths := make(map[string]string)

	err := filepath.Walk(ix.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}
		if info.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".json" {
			return nil
		}

		id := decisionID(path)
		if prev, ok := paths[id]; ok {
			ix.logger.Warn("duplicate decision id, keeping first file", "id", id, "kept", prev, "skipped", path)
			return nil
		}
		paths[id] = path
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan decisions directory: %w", err)
	}

	ix.mu.Lock()
	ix.paths = paths
	ix.mu.Unlock()
	return nil
}

// Len returns the number of indexed decisions.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.paths)
}

// Resolve returns the full text of the decision with the given id,
// NFC-normalized so that text matching is not thrown off by decomposed
// accents in OCR output. Returns ErrNotFound when the id is unknown.
func (ix *Index) Resolve(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ix.mu.RLock()
	path, ok := ix.paths[id]
	ix.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open decision %s: %w", id, err)
	}
	defer func() {
		_ = f.Close()
	}()

	v, err := ast.ParseSingle(f)
	if err != nil {
		return "", fmt.Errorf("failed to parse decision %s: %w", id, err)
	}
	obj, ok := v.(ast.Object)
	if !ok {
		return "", fmt.Errorf("decision %s is not a JSON object", id)
	}

	member := obj.Find("text")
	if member == nil {
		// Tolerated: a decision file without a text member renders as an
		// empty document rather than an error page.
		return "", nil
	}
	text, ok := member.Value.(ast.Text)
	if !ok {
		return "", fmt.Errorf("decision %s has a non-string text member", id)
	}

	return norm.NFC.String(text.Unquote().String()), nil
}

// SplitID splits a decision id of the form "num__date" into its parts.
// Ids without the separator come back whole, with an empty date.
func SplitID(id string) (num, date string) {
	num, date, ok := strings.Cut(id, "__")
	if !ok {
		return id, ""
	}
	return num, date
}

// decisionID derives the decision id from a file path.
func decisionID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
