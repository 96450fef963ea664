package database

import (
	"database/sql"
	"fmt"
)

var _ UserRepository = (*userRepository)(nil)

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) UserRepository {
	return &userRepository{db: db}
}

// GetDefaultAuthorID resolves the author attributed to imported content: the
// lowest-identifier administrator, then the lowest-identifier account of any
// role, then the first system account. Remote-supplied authorship is never
// trusted.
func (r *userRepository) GetDefaultAuthorID() (int64, error) {
	var id int64
	err := r.db.QueryRow(`
		SELECT id FROM users
		WHERE role = 'administrator'
		ORDER BY id
		LIMIT 1
	`).Scan(&id)

	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to resolve administrator account: %w", err)
	}

	err = r.db.QueryRow(`SELECT id FROM users ORDER BY id LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve fallback account: %w", err)
	}

	return id, nil
}
