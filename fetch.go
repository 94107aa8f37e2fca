package uisound

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// Fetcher retrieves raw resource bytes for the cache. Status is the HTTP
// status code where the transport has one, 0 otherwise. Fetchers apply no
// retry policy; cancellation and deadlines come in through ctx.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (data []byte, status int, err error)
}

// defaultFetcher reads http(s) URLs over the network and anything else
// from the local filesystem.
type defaultFetcher struct {
	client *http.Client
}

func newDefaultFetcher() *defaultFetcher {
	return &defaultFetcher{client: &http.Client{}}
}

func (f *defaultFetcher) Fetch(ctx context.Context, url string) ([]byte, int, error) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return f.fetchHTTP(ctx, url)
	}

	data, err := os.ReadFile(url)
	if err != nil {
		return nil, 0, err
	}
	return data, 0, nil
}

func (f *defaultFetcher) fetchHTTP(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return data, resp.StatusCode, nil
}
