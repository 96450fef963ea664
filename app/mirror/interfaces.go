package mirror

import (
	"context"

	"cms-mirror/app/remote"
)

// FetcherInterface covers the remote client operations the engine needs.
type FetcherInterface interface {
	FetchPosts(ctx context.Context, endpoint string, maxPages int) ([]remote.Post, error)
	FetchMediaSourceURL(ctx context.Context, href string) (string, error)
	Download(ctx context.Context, rawURL string) ([]byte, string, error)
}

var _ FetcherInterface = (*remote.Client)(nil)
