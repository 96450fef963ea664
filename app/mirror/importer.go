package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cms-mirror/app/config"
	"cms-mirror/app/database"
	"cms-mirror/app/remote"
)

const (
	placeholderTitle = "(sin titulo)"
	noImageWarning   = "no featured image found"
	remoteDateLayout = "2006-01-02T15:04:05"
)

// Statuses a remote item is allowed to carry over. Anything else defaults to
// draft so unmoderated content is never auto-published under an unexpected
// status value.
var allowedStatuses = map[string]bool{
	"publish": true,
	"draft":   true,
	"pending": true,
	"future":  true,
}

// Importer runs the per-item reconciliation loop: duplicate detection, term
// resolution, insert-or-update, media attachment and audit.
type Importer struct {
	client  FetcherInterface
	posts   database.PostRepository
	users   database.UserRepository
	terms   *TermResolver
	media   *MediaResolver
	auditor *Auditor
}

func NewImporter(client FetcherInterface, posts database.PostRepository,
	users database.UserRepository, terms *TermResolver, media *MediaResolver,
	auditor *Auditor) *Importer {
	return &Importer{
		client:  client,
		posts:   posts,
		users:   users,
		terms:   terms,
		media:   media,
		auditor: auditor,
	}
}

// Run mirrors one source. Only a missing endpoint or a listing fetch failure
// abort the run; per-item failures are absorbed and reported.
func (im *Importer) Run(ctx context.Context, source *config.Source) (*Report, error) {
	if strings.TrimSpace(source.URL) == "" {
		return nil, ErrNoEndpoint
	}

	fetchCtx, cancel := context.WithTimeout(ctx, sourceTimeout(source))
	defer cancel()

	remotePosts, err := im.client.FetchPosts(fetchCtx, source.URL, source.Settings.MaxPages)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch remote listing: %w", err)
	}

	report := &Report{Total: len(remotePosts)}

	for _, rp := range remotePosts {
		result := im.importPost(ctx, source, rp)

		switch result.Outcome {
		case OutcomeCreated:
			report.Created++
		case OutcomeUpdated:
			report.Updated++
		case OutcomeSkipped:
			report.Skipped++
		}
		report.Warnings = append(report.Warnings, result.Warnings...)
	}

	return report, nil
}

// importPost processes one remote item in isolation; it never propagates a
// failure to the run.
func (im *Importer) importPost(ctx context.Context, source *config.Source, rp remote.Post) ImportResult {
	guid := strings.TrimSpace(rp.GUID.Rendered)
	title := StripTags(rp.Title.Rendered)

	result := ImportResult{Title: title}

	// Terms are refreshed on every run so remote categorization edits
	// propagate to existing posts.
	resolved, termWarnings := im.terms.Resolve(rp.EmbeddedTerms())
	result.Terms = resolved
	result.Warnings = append(result.Warnings, termWarnings...)

	existing, err := im.findExisting(source.Name, guid, title)
	if err != nil {
		slog.Error("Duplicate detection failed, skipping item", "source", source.Name, "title", title, "error", err)
		result.Outcome = OutcomeSkipped
		result.Warnings = append(result.Warnings, fmt.Sprintf("duplicate detection failed for '%s': %v", title, err))
		return result
	}

	if existing != nil {
		return im.updatePost(existing, guid, title, resolved, result)
	}

	return im.createPost(ctx, source, rp, guid, title, resolved, result)
}

// findExisting applies the dedup policy: the provenance guid is authoritative;
// the normalized-title match is a best-effort fallback for guid-less items and
// is not guaranteed unique.
func (im *Importer) findExisting(sourceName, guid, title string) (*database.Post, error) {
	if guid != "" {
		return im.posts.GetPostByGUID(sourceName, guid)
	}
	return im.posts.GetPostByTitle(sourceName, title)
}

// updatePost refreshes term associations and provenance on an already
// imported post. Local edits to title and body are preserved.
func (im *Importer) updatePost(existing *database.Post, guid, title string,
	resolved map[Kind][]ResolvedTerm, result ImportResult) ImportResult {

	result.PostID = existing.ID

	for _, kind := range Kinds {
		if err := im.posts.SetPostTerms(existing.ID, string(kind), TermIDs(resolved, kind)); err != nil {
			slog.Warn("Failed to refresh term associations", "post_id", existing.ID, "kind", string(kind), "error", err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("failed to refresh %s terms for '%s': %v", kind, title, err))
		}
	}

	if err := im.posts.SetPostProvenance(existing.ID, guid, true); err != nil {
		slog.Warn("Failed to refresh provenance metadata", "post_id", existing.ID, "error", err)
	}

	im.auditor.Record(title, TermNames(resolved, KindCategory), TermNames(resolved, KindTag), nil)

	result.Outcome = OutcomeUpdated
	return result
}

// createPost builds and stores a new local post, then attaches terms, media
// and provenance. An insertion failure skips the item with nothing written.
func (im *Importer) createPost(ctx context.Context, source *config.Source, rp remote.Post,
	guid, title string, resolved map[Kind][]ResolvedTerm, result ImportResult) ImportResult {

	post := database.Post{
		SourceName:  source.Name,
		Title:       title,
		Content:     rp.Content.Rendered,
		Excerpt:     StripTags(rp.Excerpt.Rendered),
		Slug:        rp.Slug,
		Status:      validateStatus(rp.Status),
		AuthorID:    im.resolveAuthor(),
		PublishedAt: parsePublishedDate(rp.DateGMT, rp.Date),
		RemoteGUID:  guid,
		Imported:    true,
	}

	if post.Title == "" {
		post.Title = placeholderTitle
	}
	if post.Slug == "" {
		post.Slug = Slugify(post.Title)
	}

	postID, err := im.posts.InsertPost(post)
	if err != nil {
		slog.Error("Insertion rejected, skipping item", "source", source.Name, "title", post.Title, "error", err)
		result.Outcome = OutcomeSkipped
		result.Warnings = append(result.Warnings, fmt.Sprintf("failed to insert '%s': %v", post.Title, err))
		return result
	}

	result.PostID = postID

	if err := im.posts.SetPostProvenance(postID, guid, true); err != nil {
		slog.Warn("Failed to set provenance metadata", "post_id", postID, "error", err)
	}

	for _, kind := range Kinds {
		if err := im.posts.SetPostTerms(postID, string(kind), TermIDs(resolved, kind)); err != nil {
			slog.Warn("Failed to set term associations", "post_id", postID, "kind", string(kind), "error", err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("failed to set %s terms for '%s': %v", kind, post.Title, err))
		}
	}

	result.ImageURLs = im.attachMedia(ctx, source, rp, postID, post.Title, &result)

	im.auditor.Record(post.Title, TermNames(resolved, KindCategory), TermNames(resolved, KindTag), result.ImageURLs)

	result.Outcome = OutcomeCreated
	return result
}

// attachMedia resolves and downloads the featured image. Failures degrade to
// "no image" with a warning; the item stays imported.
func (im *Importer) attachMedia(ctx context.Context, source *config.Source, rp remote.Post,
	postID int64, title string, result *ImportResult) []string {

	if source.Settings.SkipMedia {
		return nil
	}

	mediaCtx, cancel := context.WithTimeout(ctx, sourceTimeout(source))
	defer cancel()

	imageURL, ok := im.media.ResolveURL(mediaCtx, rp)
	if !ok {
		im.auditor.Warn(title, noImageWarning)
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s: '%s'", noImageWarning, title))
		return nil
	}

	if _, err := im.media.Attach(mediaCtx, postID, imageURL); err != nil {
		reason := fmt.Sprintf("failed to attach image: %v", err)
		im.auditor.Warn(title, reason)
		result.Warnings = append(result.Warnings, fmt.Sprintf("'%s': %s", title, reason))
	}

	return []string{imageURL}
}

func (im *Importer) resolveAuthor() int64 {
	id, err := im.users.GetDefaultAuthorID()
	if err != nil {
		slog.Warn("Author resolution failed, using first system account", "error", err)
		return 1
	}
	return id
}

// sourceTimeout bounds each outbound call so a stalled remote cannot hang the
// run indefinitely.
func sourceTimeout(source *config.Source) time.Duration {
	if source.Settings.Timeout > 0 {
		return time.Duration(source.Settings.Timeout) * time.Second
	}
	return 30 * time.Second
}

func validateStatus(status string) string {
	if allowedStatuses[status] {
		return status
	}
	return "draft"
}

// parsePublishedDate prefers the GMT date converted to the local-equivalent
// representation, falls back to the plain date, and leaves the date unset when
// neither parses so the store applies its own default.
func parsePublishedDate(dateGMT, date string) *time.Time {
	if dateGMT != "" {
		if t, err := time.ParseInLocation(remoteDateLayout, dateGMT, time.UTC); err == nil {
			local := t.In(time.Local)
			return &local
		}
	}

	if date != "" {
		if t, err := time.ParseInLocation(remoteDateLayout, date, time.Local); err == nil {
			return &t
		}
	}

	return nil
}
