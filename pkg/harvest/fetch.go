package harvest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"codeberg.org/readeck/go-readability/v2"
	"golang.org/x/sync/singleflight"
)

// Article is the readable part of a fetched page.
type Article struct {
	URL   string
	Title string
	Text  string
}

// Fetcher downloads pages and extracts their readable article content.
// Responses are cached per URL so repeated harvests of the same page
// within a run hit the network once.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string

	cache   map[string]*Article
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewFetcherParams holds the configuration for creating a fetcher.
type NewFetcherParams struct {
	HTTPClient *http.Client
	UserAgent  string
}

// NewFetcher creates a fetcher. Zero-value params fall back to defaults.
func NewFetcher(params NewFetcherParams) *Fetcher {
	if params.HTTPClient == nil {
		params.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if params.UserAgent == "" {
		params.UserAgent = "culturegraph-harvester/1.0"
	}

	return &Fetcher{
		httpClient: params.HTTPClient,
		userAgent:  params.UserAgent,
		cache:      make(map[string]*Article),
	}
}

// FetchArticle fetches a URL and extracts the readable article text.
func (f *Fetcher) FetchArticle(ctx context.Context, pageURL string) (*Article, error) {
	f.cacheMu.RLock()
	if cached, ok := f.cache[pageURL]; ok {
		f.cacheMu.RUnlock()
		return cached, nil
	}
	f.cacheMu.RUnlock()

	result, err, _ := f.group.Do(pageURL, func() (any, error) {
		f.cacheMu.RLock()
		if cached, ok := f.cache[pageURL]; ok {
			f.cacheMu.RUnlock()
			return cached, nil
		}
		f.cacheMu.RUnlock()

		body, contentType, err := f.get(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		defer body.Close()

		if !strings.Contains(contentType, "text/html") {
			return nil, fmt.Errorf("unsupported content type: %s", contentType)
		}

		parsed, err := url.Parse(pageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse url: %w", err)
		}

		article, err := readability.FromReader(body, parsed)
		if err != nil {
			return nil, fmt.Errorf("failed to parse html: %w", err)
		}

		var builder strings.Builder
		if err := article.RenderText(&builder); err != nil {
			return nil, fmt.Errorf("failed to render article text: %w", err)
		}

		result := &Article{
			URL:   pageURL,
			Title: article.Title(),
			Text:  builder.String(),
		}

		f.cacheMu.Lock()
		f.cache[pageURL] = result
		f.cacheMu.Unlock()

		return result, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*Article), nil
}

// FetchHTML fetches a URL and returns the raw HTML body, used for link
// discovery on index pages where readability would strip the navigation.
func (f *Fetcher) FetchHTML(ctx context.Context, pageURL string) ([]byte, error) {
	body, _, err := f.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read page body: %w", err)
	}

	return raw, nil
}

func (f *Fetcher) get(ctx context.Context, pageURL string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch url: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", fmt.Errorf("fetch returned status %d", resp.StatusCode)
	}

	return resp.Body, resp.Header.Get("Content-Type"), nil
}
