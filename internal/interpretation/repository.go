package interpretation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=repository.go -destination=../mocks/interpretation/mock_repository.go -package=mock_interpretation

const recordColumns = "id, requester_id, term, interpretation, created_at"

// Repository is the append-only interpretation store. The latest record of a term wins.
type Repository interface {
	Cache
	Create(ctx context.Context, record *Record) error
	History(ctx context.Context, term string) ([]Record, error)
	FindAll(ctx context.Context) ([]Record, error)
	Stats(ctx context.Context, topTerms int) (Stats, error)
}

// DBRepository implements Repository on the interpretations table.
type DBRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{
		db: db,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Get returns the interpretation of the most recent record for term, or false if there is none.
func (r *DBRepository) Get(ctx context.Context, term string) (string, bool, error) {
	var interpretation string
	err := r.db.GetContext(ctx, &interpretation,
		"SELECT interpretation FROM interpretations WHERE term = ? ORDER BY created_at DESC, id DESC LIMIT 1",
		term)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("db.GetContext(latest interpretation) > %w", err)
	}
	return interpretation, true, nil
}

// Put appends a record timestamped now.
func (r *DBRepository) Put(ctx context.Context, requesterID int64, term, interpretation string) error {
	return r.Create(ctx, &Record{
		RequesterID:    requesterID,
		Term:           term,
		Interpretation: interpretation,
		CreatedAt:      r.now(),
	})
}

// Create appends a record. A zero CreatedAt is set to now.
func (r *DBRepository) Create(ctx context.Context, record *Record) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = r.now()
	}
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO interpretations (requester_id, term, interpretation, created_at)
		VALUES (?, ?, ?, ?)`,
		record.RequesterID, record.Term, record.Interpretation, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert interpretation) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	record.ID = id
	return nil
}

// History returns every record of term, newest first.
func (r *DBRepository) History(ctx context.Context, term string) ([]Record, error) {
	var records []Record
	if err := r.db.SelectContext(ctx, &records,
		"SELECT "+recordColumns+" FROM interpretations WHERE term = ? ORDER BY created_at DESC, id DESC",
		term); err != nil {
		return nil, fmt.Errorf("db.SelectContext(interpretations by term) > %w", err)
	}
	return records, nil
}

// FindAll returns every record, oldest first.
func (r *DBRepository) FindAll(ctx context.Context) ([]Record, error) {
	var records []Record
	if err := r.db.SelectContext(ctx, &records,
		"SELECT "+recordColumns+" FROM interpretations ORDER BY created_at, id"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(interpretations) > %w", err)
	}
	return records, nil
}

func (r *DBRepository) Stats(ctx context.Context, topTerms int) (Stats, error) {
	var stats Stats
	if err := r.db.GetContext(ctx, &stats.Records, "SELECT COUNT(*) FROM interpretations"); err != nil {
		return Stats{}, fmt.Errorf("db.GetContext(count interpretations) > %w", err)
	}
	if err := r.db.GetContext(ctx, &stats.Requesters, "SELECT COUNT(DISTINCT requester_id) FROM interpretations"); err != nil {
		return Stats{}, fmt.Errorf("db.GetContext(count requesters) > %w", err)
	}
	if topTerms <= 0 {
		return stats, nil
	}
	if err := r.db.SelectContext(ctx, &stats.TopTerms,
		"SELECT term, COUNT(*) AS count FROM interpretations GROUP BY term ORDER BY count DESC, term LIMIT ?",
		topTerms); err != nil {
		return Stats{}, fmt.Errorf("db.SelectContext(top terms) > %w", err)
	}
	return stats, nil
}
