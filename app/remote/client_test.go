package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingPage(count int, offset int) []Post {
	posts := make([]Post, count)
	for i := range posts {
		posts[i] = Post{
			ID:    int64(offset + i + 1),
			GUID:  Rendered{Rendered: fmt.Sprintf("https://example.com/?p=%d", offset+i+1)},
			Title: Rendered{Rendered: fmt.Sprintf("Post %d", offset+i+1)},
		}
	}
	return posts
}

func TestFetchPostsRequestShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "1", q.Get("_embed"))
		assert.Equal(t, "100", q.Get("per_page"))
		assert.Equal(t, "1", q.Get("page"))
		assert.Equal(t, "CMS Mirror/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		json.NewEncoder(w).Encode(listingPage(2, 0))
	}))
	defer server.Close()

	client := NewClient(server.Client(), "CMS Mirror/1.0")

	posts, err := client.FetchPosts(context.Background(), server.URL, 5)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Post 1", posts[0].Title.Rendered)
}

func TestFetchPostsPreservesEndpointQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("categories"))
		assert.Equal(t, "1", r.URL.Query().Get("_embed"))
		json.NewEncoder(w).Encode([]Post{})
	}))
	defer server.Close()

	client := NewClient(server.Client(), "test")

	_, err := client.FetchPosts(context.Background(), server.URL+"/wp-json/wp/v2/posts?categories=5", 1)
	require.NoError(t, err)
}

func TestFetchPostsWalksPagination(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("X-WP-TotalPages", "2")

		switch r.URL.Query().Get("page") {
		case "1":
			json.NewEncoder(w).Encode(listingPage(100, 0))
		case "2":
			json.NewEncoder(w).Encode(listingPage(3, 100))
		default:
			t.Errorf("unexpected page request: %s", r.URL.Query().Get("page"))
		}
	}))
	defer server.Close()

	client := NewClient(server.Client(), "test")

	posts, err := client.FetchPosts(context.Background(), server.URL, 10)
	require.NoError(t, err)
	assert.Len(t, posts, 103)
	assert.Equal(t, 2, requests)
}

func TestFetchPostsHonorsMaxPages(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("X-WP-TotalPages", "5")
		json.NewEncoder(w).Encode(listingPage(100, (requests-1)*100))
	}))
	defer server.Close()

	client := NewClient(server.Client(), "test")

	posts, err := client.FetchPosts(context.Background(), server.URL, 2)
	require.NoError(t, err)
	assert.Len(t, posts, 200)
	assert.Equal(t, 2, requests)
}

func TestFetchPostsStopsOnShortPage(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		json.NewEncoder(w).Encode(listingPage(7, 0))
	}))
	defer server.Close()

	client := NewClient(server.Client(), "test")

	posts, err := client.FetchPosts(context.Background(), server.URL, 10)
	require.NoError(t, err)
	assert.Len(t, posts, 7)
	assert.Equal(t, 1, requests)
}

func TestFetchPostsEmptyListing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Post{})
	}))
	defer server.Close()

	client := NewClient(server.Client(), "test")

	posts, err := client.FetchPosts(context.Background(), server.URL, 5)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestFetchPostsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.Client(), "test")

	_, err := client.FetchPosts(context.Background(), server.URL, 5)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
}

func TestFetchPostsMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := NewClient(server.Client(), "test")

	_, err := client.FetchPosts(context.Background(), server.URL, 5)
	require.Error(t, err)

	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestFetchMediaSourceURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "source_url", r.URL.Query().Get("_fields"))
		json.NewEncoder(w).Encode(Media{SourceURL: "https://cdn.example.com/hero.jpg"})
	}))
	defer server.Close()

	client := NewClient(server.Client(), "test")

	url, err := client.FetchMediaSourceURL(context.Background(), server.URL+"/wp-json/wp/v2/media/7")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/hero.jpg", url)
}

func TestFetchMediaSourceURLEmptyField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Media{})
	}))
	defer server.Close()

	client := NewClient(server.Client(), "test")

	_, err := client.FetchMediaSourceURL(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no source_url")
}

func TestDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg-bytes"))
	}))
	defer server.Close()

	client := NewClient(server.Client(), "test")

	data, contentType, err := client.Download(context.Background(), server.URL+"/photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
	assert.Equal(t, "image/jpeg", contentType)
}

func TestDownloadNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.Client(), "test")

	_, _, err := client.Download(context.Background(), server.URL+"/missing.jpg")
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}
