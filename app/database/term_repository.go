package database

import (
	"database/sql"
	"fmt"
)

var _ TermRepository = (*termRepository)(nil)

type termRepository struct {
	db *DB
}

func NewTermRepository(db *DB) TermRepository {
	return &termRepository{db: db}
}

func (r *termRepository) GetTerm(termID int64) (*Term, error) {
	var term Term
	err := r.db.QueryRow(`
		SELECT id, kind, name, slug
		FROM terms
		WHERE id = $1
	`, termID).Scan(&term.ID, &term.Kind, &term.Name, &term.Slug)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get term: %w", err)
	}

	return &term, nil
}

func (r *termRepository) GetTermBySlug(kind, slug string) (*Term, error) {
	var term Term
	err := r.db.QueryRow(`
		SELECT id, kind, name, slug
		FROM terms
		WHERE kind = $1 AND slug = $2
	`, kind, slug).Scan(&term.ID, &term.Kind, &term.Name, &term.Slug)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get term by slug: %w", err)
	}

	return &term, nil
}

// CreateTerm inserts a term, converging on the existing row when a concurrent
// run already created the same (kind, slug) pair.
func (r *termRepository) CreateTerm(kind, name, slug string) (int64, error) {
	var id int64
	err := r.db.QueryRow(`
		INSERT INTO terms (kind, name, slug)
		VALUES ($1, $2, $3)
		ON CONFLICT (kind, slug) DO UPDATE SET slug = EXCLUDED.slug
		RETURNING id
	`, kind, name, slug).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create term: %w", err)
	}

	return id, nil
}
