package database

import (
	"fmt"
)

var _ AttachmentRepository = (*attachmentRepository)(nil)

type attachmentRepository struct {
	db *DB
}

func NewAttachmentRepository(db *DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) CreateAttachment(postID int64, sourceURL, filePath, contentType string, fileSize int64) (int64, error) {
	var id int64
	err := r.db.QueryRow(`
		INSERT INTO attachments (post_id, source_url, file_path, content_type, file_size)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, postID, sourceURL, filePath, contentType, fileSize).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create attachment: %w", err)
	}

	return id, nil
}
