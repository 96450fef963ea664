package database

import (
	"time"
)

type SourceRepository interface {
	GetSource(sourceName string) (*Source, error)
	GetSourceCount() (int, error)

	UpsertSource(sourceName, url string) error
	UpdateSyncTimes(sourceName string, nextSync time.Time) error
}

type PostRepository interface {
	GetPostByGUID(sourceName, guid string) (*Post, error)
	GetPostByTitle(sourceName, title string) (*Post, error)
	GetPost(postID int64) (*Post, error)
	GetPostCount() (int, error)
	GetPostStats(sourceName string) (total, published, drafts int, err error)

	InsertPost(post Post) (int64, error)
	SetPostTerms(postID int64, kind string, termIDs []int64) error
	SetPostProvenance(postID int64, guid string, imported bool) error
	SetPostThumbnail(postID, attachmentID int64) error
}

type TermRepository interface {
	GetTerm(termID int64) (*Term, error)
	GetTermBySlug(kind, slug string) (*Term, error)
	CreateTerm(kind, name, slug string) (int64, error)
}

type AttachmentRepository interface {
	CreateAttachment(postID int64, sourceURL, filePath, contentType string, fileSize int64) (int64, error)
}

type UserRepository interface {
	GetDefaultAuthorID() (int64, error)
}
