package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cms-mirror/app/database"
	"cms-mirror/app/remote"
)

// MediaResolver resolves a remote item's featured image into a durably stored
// local attachment. Every failure here degrades to "no image"; it never fails
// the item.
type MediaResolver struct {
	client      FetcherInterface
	attachments database.AttachmentRepository
	posts       database.PostRepository
	mediaDir    string
}

func NewMediaResolver(client FetcherInterface, attachments database.AttachmentRepository,
	posts database.PostRepository, mediaDir string) *MediaResolver {
	return &MediaResolver{
		client:      client,
		attachments: attachments,
		posts:       posts,
		mediaDir:    mediaDir,
	}
}

// ResolveURL determines the best-available featured-image URL: embedded media
// first, then a follow-up fetch of the linked media resource narrowed to
// source_url. Returns false when no image can be determined.
func (mr *MediaResolver) ResolveURL(ctx context.Context, post remote.Post) (string, bool) {
	if u := post.EmbeddedMediaURL(); u != "" {
		return u, true
	}

	href := post.MediaLink()
	if href == "" {
		return "", false
	}

	u, err := mr.client.FetchMediaSourceURL(ctx, href)
	if err != nil {
		slog.Debug("Featured media lookup failed", "href", href, "error", err)
		return "", false
	}

	return u, true
}

// Attach downloads the image, stores it on disk, records the attachment and
// associates it as the post's thumbnail, replacing any prior association.
func (mr *MediaResolver) Attach(ctx context.Context, postID int64, imageURL string) (int64, error) {
	data, contentType, err := mr.client.Download(ctx, imageURL)
	if err != nil {
		return 0, fmt.Errorf("download failed: %w", err)
	}

	filePath, err := mr.writeFile(postID, imageURL, data)
	if err != nil {
		return 0, fmt.Errorf("storage write failed: %w", err)
	}

	attachmentID, err := mr.attachments.CreateAttachment(postID, imageURL, filePath, contentType, int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to record attachment: %w", err)
	}

	if err := mr.posts.SetPostThumbnail(postID, attachmentID); err != nil {
		return 0, fmt.Errorf("failed to set thumbnail: %w", err)
	}

	return attachmentID, nil
}

func (mr *MediaResolver) writeFile(postID int64, imageURL string, data []byte) (string, error) {
	if err := os.MkdirAll(mr.mediaDir, 0755); err != nil {
		return "", err
	}

	name := path.Base(imageURL)
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	if name == "" || name == "." || name == "/" {
		name = "attachment"
	}

	filePath := filepath.Join(mr.mediaDir, fmt.Sprintf("%d-%s", postID, name))
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", err
	}

	return filePath, nil
}
