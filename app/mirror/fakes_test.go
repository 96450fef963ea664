package mirror

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cms-mirror/app/database"
	"cms-mirror/app/remote"
)

// In-memory fakes for the engine's collaborators.

type fakeTermRepo struct {
	nextID      int64
	terms       map[string]*database.Term // keyed by kind/slug
	createErr   error
	createCalls int
}

func newFakeTermRepo() *fakeTermRepo {
	return &fakeTermRepo{terms: make(map[string]*database.Term)}
}

func termKey(kind, slug string) string {
	return kind + "/" + slug
}

func (f *fakeTermRepo) GetTerm(termID int64) (*database.Term, error) {
	for _, t := range f.terms {
		if t.ID == termID {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeTermRepo) GetTermBySlug(kind, slug string) (*database.Term, error) {
	return f.terms[termKey(kind, slug)], nil
}

func (f *fakeTermRepo) CreateTerm(kind, name, slug string) (int64, error) {
	f.createCalls++
	if f.createErr != nil {
		return 0, f.createErr
	}

	if existing, ok := f.terms[termKey(kind, slug)]; ok {
		return existing.ID, nil
	}

	f.nextID++
	f.terms[termKey(kind, slug)] = &database.Term{ID: f.nextID, Kind: kind, Name: name, Slug: slug}
	return f.nextID, nil
}

type fakePostRepo struct {
	nextID     int64
	posts      map[int64]*database.Post
	postTerms  map[int64]map[string][]int64
	thumbnails map[int64]int64
	insertErr  error
	guidErr    error
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts:      make(map[int64]*database.Post),
		postTerms:  make(map[int64]map[string][]int64),
		thumbnails: make(map[int64]int64),
	}
}

func (f *fakePostRepo) ids() []int64 {
	ids := make([]int64, 0, len(f.posts))
	for id := range f.posts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (f *fakePostRepo) GetPostByGUID(sourceName, guid string) (*database.Post, error) {
	if f.guidErr != nil {
		return nil, f.guidErr
	}
	if guid == "" {
		return nil, nil
	}
	for _, id := range f.ids() {
		p := f.posts[id]
		if p.SourceName == sourceName && p.RemoteGUID == guid {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePostRepo) GetPostByTitle(sourceName, title string) (*database.Post, error) {
	if title == "" {
		return nil, nil
	}
	for _, id := range f.ids() {
		p := f.posts[id]
		if p.SourceName == sourceName && p.Title == title {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePostRepo) GetPost(postID int64) (*database.Post, error) {
	return f.posts[postID], nil
}

func (f *fakePostRepo) GetPostCount() (int, error) {
	return len(f.posts), nil
}

func (f *fakePostRepo) GetPostStats(sourceName string) (int, int, int, error) {
	total, published, drafts := 0, 0, 0
	for _, p := range f.posts {
		if p.SourceName != sourceName {
			continue
		}
		total++
		switch p.Status {
		case "publish":
			published++
		case "draft":
			drafts++
		}
	}
	return total, published, drafts, nil
}

func (f *fakePostRepo) InsertPost(post database.Post) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	if post.RemoteGUID != "" {
		for _, p := range f.posts {
			if p.SourceName == post.SourceName && p.RemoteGUID == post.RemoteGUID {
				return 0, errors.New("duplicate remote_guid")
			}
		}
	}
	f.nextID++
	post.ID = f.nextID
	f.posts[post.ID] = &post
	return post.ID, nil
}

func (f *fakePostRepo) SetPostTerms(postID int64, kind string, termIDs []int64) error {
	if _, ok := f.posts[postID]; !ok {
		return fmt.Errorf("post %d not found", postID)
	}
	if f.postTerms[postID] == nil {
		f.postTerms[postID] = make(map[string][]int64)
	}
	f.postTerms[postID][kind] = append([]int64(nil), termIDs...)
	return nil
}

func (f *fakePostRepo) SetPostProvenance(postID int64, guid string, imported bool) error {
	p, ok := f.posts[postID]
	if !ok {
		return fmt.Errorf("post %d not found", postID)
	}
	if guid != "" {
		p.RemoteGUID = guid
	}
	p.Imported = imported
	return nil
}

func (f *fakePostRepo) SetPostThumbnail(postID, attachmentID int64) error {
	if _, ok := f.posts[postID]; !ok {
		return fmt.Errorf("post %d not found", postID)
	}
	f.thumbnails[postID] = attachmentID
	return nil
}

type fakeAttachmentRepo struct {
	nextID  int64
	created []database.Attachment
	err     error
}

func (f *fakeAttachmentRepo) CreateAttachment(postID int64, sourceURL, filePath, contentType string, fileSize int64) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.nextID++
	f.created = append(f.created, database.Attachment{
		ID: f.nextID, PostID: postID, SourceURL: sourceURL,
		FilePath: filePath, ContentType: contentType, FileSize: fileSize,
	})
	return f.nextID, nil
}

type fakeUserRepo struct {
	id  int64
	err error
}

func (f *fakeUserRepo) GetDefaultAuthorID() (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.id, nil
}

type fakeFetcher struct {
	posts    []remote.Post
	fetchErr error

	mediaURL string
	mediaErr error

	downloadData  []byte
	downloadType  string
	downloadErr   error
	downloadCalls int
}

func (f *fakeFetcher) FetchPosts(ctx context.Context, endpoint string, maxPages int) ([]remote.Post, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.posts, nil
}

func (f *fakeFetcher) FetchMediaSourceURL(ctx context.Context, href string) (string, error) {
	if f.mediaErr != nil {
		return "", f.mediaErr
	}
	return f.mediaURL, nil
}

func (f *fakeFetcher) Download(ctx context.Context, rawURL string) ([]byte, string, error) {
	f.downloadCalls++
	if f.downloadErr != nil {
		return nil, "", f.downloadErr
	}
	return f.downloadData, f.downloadType, nil
}
