package database

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

var _ PostRepository = (*postRepository)(nil)

type postRepository struct {
	db *DB
}

func NewPostRepository(db *DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, source_name, title, slug, content, excerpt, status,
	       author_id, published_at, thumbnail_id, COALESCE(remote_guid, ''),
	       imported, created_at, updated_at`

func (r *postRepository) scanPost(row *sql.Row) (*Post, error) {
	var post Post
	err := row.Scan(
		&post.ID, &post.SourceName, &post.Title, &post.Slug, &post.Content,
		&post.Excerpt, &post.Status, &post.AuthorID, &post.PublishedAt,
		&post.ThumbnailID, &post.RemoteGUID, &post.Imported,
		&post.CreatedAt, &post.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &post, nil
}

// GetPostByGUID looks up a post by its provenance guid. Empty guids are never
// matched; they cannot identify a post.
func (r *postRepository) GetPostByGUID(sourceName, guid string) (*Post, error) {
	if guid == "" {
		return nil, nil
	}

	post, err := r.scanPost(r.db.QueryRow(`
		SELECT `+postColumns+`
		FROM posts
		WHERE source_name = $1 AND remote_guid = $2 AND remote_guid <> ''
		LIMIT 1
	`, sourceName, guid))

	if err != nil {
		return nil, fmt.Errorf("failed to get post by guid: %w", err)
	}

	return post, nil
}

// GetPostByTitle looks up a post by exact title match across any status.
// Best-effort fallback for sources that do not supply a stable guid.
func (r *postRepository) GetPostByTitle(sourceName, title string) (*Post, error) {
	if title == "" {
		return nil, nil
	}

	post, err := r.scanPost(r.db.QueryRow(`
		SELECT `+postColumns+`
		FROM posts
		WHERE source_name = $1 AND title = $2
		ORDER BY id
		LIMIT 1
	`, sourceName, title))

	if err != nil {
		return nil, fmt.Errorf("failed to get post by title: %w", err)
	}

	return post, nil
}

func (r *postRepository) GetPost(postID int64) (*Post, error) {
	post, err := r.scanPost(r.db.QueryRow(`
		SELECT `+postColumns+`
		FROM posts
		WHERE id = $1
	`, postID))

	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return post, nil
}

func (r *postRepository) InsertPost(post Post) (int64, error) {
	var id int64
	err := r.db.QueryRow(`
		INSERT INTO posts (source_name, title, slug, content, excerpt, status,
			author_id, published_at, remote_guid, imported)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, post.SourceName, post.Title, post.Slug, post.Content, post.Excerpt,
		post.Status, post.AuthorID, post.PublishedAt, post.RemoteGUID,
		post.Imported).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to insert post: %w", err)
	}

	return id, nil
}

// SetPostTerms replaces the post's term set for one kind with exactly the
// given identifiers. An empty list clears the associations.
func (r *postRepository) SetPostTerms(postID int64, kind string, termIDs []int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		DELETE FROM post_terms
		WHERE post_id = $1 AND kind = $2
	`, postID, kind)
	if err != nil {
		return fmt.Errorf("failed to clear post terms: %w", err)
	}

	if len(termIDs) > 0 {
		_, err = tx.Exec(`
			INSERT INTO post_terms (post_id, term_id, kind)
			SELECT $1, t.id, $2
			FROM terms t
			WHERE t.id = ANY($3)
			ON CONFLICT (post_id, term_id) DO NOTHING
		`, postID, kind, pq.Array(termIDs))
		if err != nil {
			return fmt.Errorf("failed to set post terms: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit post terms: %w", err)
	}

	return nil
}

// SetPostProvenance refreshes the import metadata. The guid is only written
// when non-empty so a later run cannot erase an established dedup key.
func (r *postRepository) SetPostProvenance(postID int64, guid string, imported bool) error {
	_, err := r.db.Exec(`
		UPDATE posts
		SET remote_guid = CASE WHEN $2 <> '' THEN $2 ELSE remote_guid END,
		    imported = $3, updated_at = NOW()
		WHERE id = $1
	`, postID, guid, imported)

	if err != nil {
		return fmt.Errorf("failed to set post provenance: %w", err)
	}

	return nil
}

func (r *postRepository) SetPostThumbnail(postID, attachmentID int64) error {
	_, err := r.db.Exec(`
		UPDATE posts
		SET thumbnail_id = $2, updated_at = NOW()
		WHERE id = $1
	`, postID, attachmentID)

	if err != nil {
		return fmt.Errorf("failed to set post thumbnail: %w", err)
	}

	return nil
}

func (r *postRepository) GetPostCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get post count: %w", err)
	}
	return count, nil
}

func (r *postRepository) GetPostStats(sourceName string) (total, published, drafts int, err error) {
	err = r.db.QueryRow(`
		SELECT
			COUNT(*) as total,
			COALESCE(SUM(CASE WHEN status = 'publish' THEN 1 ELSE 0 END), 0) as published,
			COALESCE(SUM(CASE WHEN status = 'draft' THEN 1 ELSE 0 END), 0) as drafts
		FROM posts
		WHERE source_name = $1
	`, sourceName).Scan(&total, &published, &drafts)

	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to get post stats: %w", err)
	}

	return total, published, drafts, nil
}
