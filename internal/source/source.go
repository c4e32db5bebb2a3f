// Package source supplies the article collection from an external data
// source. The engine treats the source as opaque: a fetch-style call
// returning items plus a total count, whose failures are recoverable.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sietev/posverdad/internal/models"
)

// Provider is the data source abstraction the loader consumes.
type Provider interface {
	// Fetch returns the full article collection and its total count.
	Fetch(ctx context.Context) ([]models.Article, int, error)
}

// HTTP fetches articles from a JSON endpoint returning {items, total}.
type HTTP struct {
	url    string
	client *http.Client
}

// NewHTTP creates an HTTP provider for the given endpoint URL.
func NewHTTP(url string) *HTTP {
	return &HTTP{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch performs the GET and decodes the payload.
func (h *HTTP) Fetch(ctx context.Context) ([]models.Article, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("source: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("source: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("source: fetch: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return nil, 0, fmt.Errorf("source: read body: %w", err)
	}
	return decode(data)
}

// File reads articles from a local JSON document. Useful for fixtures
// and for offline review sessions; pairs with Watch for live reload.
type File struct {
	path string
}

// NewFile creates a file provider for the given path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Fetch reads and decodes the document.
func (f *File) Fetch(_ context.Context) ([]models.Article, int, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, 0, fmt.Errorf("source: read file: %w", err)
	}
	return decode(data)
}

// Path returns the watched document path.
func (f *File) Path() string { return f.path }

func decode(data []byte) ([]models.Article, int, error) {
	resp, err := models.DecodeArticles(data)
	if err != nil {
		return nil, 0, err
	}
	return resp.Items, resp.Total, nil
}
