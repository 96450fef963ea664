package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ SourceRepository = (*sourceRepository)(nil)

type sourceRepository struct {
	db *DB
}

func NewSourceRepository(db *DB) SourceRepository {
	return &sourceRepository{db: db}
}

// UpsertSource registers a source definition, updating the URL on change
func (r *sourceRepository) UpsertSource(sourceName, url string) error {
	_, err := r.db.Exec(`
		INSERT INTO sources (name, url)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET
			url = EXCLUDED.url,
			updated_at = NOW()
	`, sourceName, url)

	if err != nil {
		return fmt.Errorf("failed to upsert source: %w", err)
	}

	return nil
}

func (r *sourceRepository) GetSource(sourceName string) (*Source, error) {
	var source Source
	err := r.db.QueryRow(`
		SELECT id, name, url, last_synced_at, next_sync_at, created_at, updated_at
		FROM sources
		WHERE name = $1
	`, sourceName).Scan(
		&source.ID, &source.Name, &source.URL,
		&source.LastSyncedAt, &source.NextSyncAt,
		&source.CreatedAt, &source.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}

	return &source, nil
}

// UpdateSyncTimes records a completed sync and schedules the next one
func (r *sourceRepository) UpdateSyncTimes(sourceName string, nextSync time.Time) error {
	_, err := r.db.Exec(`
		UPDATE sources
		SET last_synced_at = NOW(), next_sync_at = $2, updated_at = NOW()
		WHERE name = $1
	`, sourceName, nextSync)

	if err != nil {
		return fmt.Errorf("failed to update sync times: %w", err)
	}

	return nil
}

func (r *sourceRepository) GetSourceCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM sources").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get source count: %w", err)
	}
	return count, nil
}
