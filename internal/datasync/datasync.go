// Package datasync provides import/export of the interpretation history as YAML.
package datasync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/sonnik/internal/interpretation"
)

// ImportResult tracks counts of an import.
type ImportResult struct {
	New     int
	Skipped int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun bool
}

// Importer appends records from a YAML export to the store.
type Importer struct {
	repo   interpretation.Repository
	writer io.Writer
}

// NewImporter creates a new Importer. Progress lines are written to writer.
func NewImporter(repo interpretation.Repository, writer io.Writer) *Importer {
	return &Importer{
		repo:   repo,
		writer: writer,
	}
}

type recordKey struct {
	term           string
	interpretation string
	createdAt      int64
}

func keyOf(record interpretation.Record) recordKey {
	return recordKey{
		term:           record.Term,
		interpretation: record.Interpretation,
		// MySQL keeps microseconds
		createdAt: record.CreatedAt.UTC().UnixMicro(),
	}
}

// Import skips records whose term, interpretation and timestamp already exist.
func (imp *Importer) Import(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	var records []interpretation.Record
	if err := yaml.NewDecoder(r).Decode(&records); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("yaml.Decode() > %w", err)
	}
	for i, record := range records {
		if err := validateRecord(record); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}

	existing, err := imp.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("FindAll() > %w", err)
	}
	seen := make(map[recordKey]struct{}, len(existing)+len(records))
	for _, record := range existing {
		seen[keyOf(record)] = struct{}{}
	}

	var result ImportResult
	for _, record := range records {
		key := keyOf(record)
		if _, ok := seen[key]; ok {
			fmt.Fprintf(imp.writer, "  [SKIP]  %q (%s)\n", record.Term, record.CreatedAt.Format(time.RFC3339))
			result.Skipped++
			continue
		}
		seen[key] = struct{}{}

		if !opts.DryRun {
			if err := imp.repo.Create(ctx, &interpretation.Record{
				RequesterID:    record.RequesterID,
				Term:           record.Term,
				Interpretation: record.Interpretation,
				CreatedAt:      record.CreatedAt.UTC(),
			}); err != nil {
				return nil, fmt.Errorf("Create(%s) > %w", record.Term, err)
			}
		}
		fmt.Fprintf(imp.writer, "  [NEW]  %q (%s)\n", record.Term, record.CreatedAt.Format(time.RFC3339))
		result.New++
	}
	return &result, nil
}

func validateRecord(record interpretation.Record) error {
	if strings.TrimSpace(record.Term) == "" {
		return errors.New("term is required")
	}
	if strings.TrimSpace(record.Interpretation) == "" {
		return fmt.Errorf("interpretation of %q is required", record.Term)
	}
	if record.CreatedAt.IsZero() {
		return fmt.Errorf("created_at of %q is required", record.Term)
	}
	return nil
}

// Exporter writes the whole history as YAML.
type Exporter struct {
	repo interpretation.Repository
}

// NewExporter creates a new Exporter.
func NewExporter(repo interpretation.Repository) *Exporter {
	return &Exporter{
		repo: repo,
	}
}

// Export writes every record, oldest first, and returns how many were written.
func (e *Exporter) Export(ctx context.Context, w io.Writer) (int, error) {
	records, err := e.repo.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("FindAll() > %w", err)
	}
	if records == nil {
		records = []interpretation.Record{}
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(records); err != nil {
		return 0, fmt.Errorf("yaml.Encode() > %w", err)
	}
	if err := encoder.Close(); err != nil {
		return 0, fmt.Errorf("encoder.Close() > %w", err)
	}
	return len(records), nil
}
