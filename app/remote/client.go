package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

const perPage = 100

type Client struct {
	httpClient *http.Client
	userAgent  string
}

func NewClient(httpClient *http.Client, userAgent string) *Client {
	return &Client{
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

// FetchPosts retrieves the full remote listing with related resources
// embedded, walking pagination up to maxPages. An empty listing is a valid,
// non-error result.
func (c *Client) FetchPosts(ctx context.Context, endpoint string, maxPages int) ([]Post, error) {
	if maxPages < 1 {
		maxPages = 1
	}

	var all []Post
	totalPages := maxPages

	for page := 1; page <= maxPages && page <= totalPages; page++ {
		posts, reportedPages, err := c.fetchPage(ctx, endpoint, page)
		if err != nil {
			return nil, err
		}

		all = append(all, posts...)

		if reportedPages > 0 && reportedPages < totalPages {
			totalPages = reportedPages
		}

		// A short page means the listing is exhausted
		if len(posts) < perPage {
			break
		}
	}

	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, endpoint string, page int) ([]Post, int, error) {
	pageURL, err := buildURL(endpoint, map[string]string{
		"_embed":   "1",
		"per_page": strconv.Itoa(perPage),
		"page":     strconv.Itoa(page),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("invalid endpoint URL: %w", err)
	}

	body, header, err := c.get(ctx, pageURL)
	if err != nil {
		return nil, 0, err
	}

	var posts []Post
	if err := json.Unmarshal(body, &posts); err != nil {
		return nil, 0, &DecodeError{Err: err}
	}

	totalPages := 0
	if v := header.Get("X-WP-TotalPages"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			totalPages = n
		}
	}

	return posts, totalPages, nil
}

// FetchMediaSourceURL follows a featured-media link reference, requesting only
// the source_url field. Only a 200 response with a parseable body carrying a
// non-empty URL yields a result.
func (c *Client) FetchMediaSourceURL(ctx context.Context, href string) (string, error) {
	mediaURL, err := buildURL(href, map[string]string{
		"_fields": "source_url",
	})
	if err != nil {
		return "", fmt.Errorf("invalid media link URL: %w", err)
	}

	body, _, err := c.get(ctx, mediaURL)
	if err != nil {
		return "", err
	}

	var media Media
	if err := json.Unmarshal(body, &media); err != nil {
		return "", &DecodeError{Err: err}
	}

	if media.SourceURL == "" {
		return "", fmt.Errorf("media resource has no source_url")
	}

	return media.SourceURL, nil
}

// Download fetches raw media bytes and reports the content type.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &StatusError{StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read media body: %w", err)
	}

	return data, resp.Header.Get("Content-Type"), nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, resp.Header, nil
}

func buildURL(endpoint string, params map[string]string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}

	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}
