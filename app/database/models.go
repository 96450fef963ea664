package database

import (
	"time"
)

type Source struct {
	ID           int64
	Name         string // Configuration source identifier derived from filename
	URL          string // Remote posts endpoint from configuration
	LastSyncedAt *time.Time
	NextSyncAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Post struct {
	ID          int64
	SourceName  string
	Title       string // Plain text, tags stripped
	Slug        string
	Content     string
	Excerpt     string // Plain text
	Status      string // publish, draft, pending, future
	AuthorID    int64
	PublishedAt *time.Time
	ThumbnailID *int64
	RemoteGUID  string // Stable dedup key from the remote source, empty when absent
	Imported    bool   // Machine-imported flag
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Term struct {
	ID   int64
	Kind string // category or tag
	Name string
	Slug string
}

type Attachment struct {
	ID          int64
	PostID      int64
	SourceURL   string
	FilePath    string
	ContentType string
	FileSize    int64
	CreatedAt   time.Time
}

type User struct {
	ID    int64
	Login string
	Name  string
	Role  string
}
