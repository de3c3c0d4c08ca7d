package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/unitedtribes/culturegraph/pkg/common"
	"github.com/unitedtribes/culturegraph/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultBatchSize is the number of queries sent concurrently per batch.
	DefaultBatchSize = 5
	// DefaultBatchDelay is the pause between batches.
	DefaultBatchDelay = 2 * time.Second
)

// Client queries the creative intelligence API and turns its responses into
// aggregator input. Failed queries are skipped, not retried; the upstream is
// best-effort and a partial graph is preferred over no graph.
type Client struct {
	baseURL    string
	httpClient *http.Client
	batchSize  int
	batchDelay time.Duration
}

// NewClientParams holds the configuration for creating a broker client.
type NewClientParams struct {
	BaseURL    string
	HTTPClient *http.Client
	BatchSize  int
	BatchDelay time.Duration
}

// NewClient creates a broker client. Zero-value params fall back to defaults.
func NewClient(params NewClientParams) *Client {
	if params.HTTPClient == nil {
		params.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if params.BatchSize <= 0 {
		params.BatchSize = DefaultBatchSize
	}
	if params.BatchDelay <= 0 {
		params.BatchDelay = DefaultBatchDelay
	}

	return &Client{
		baseURL:    params.BaseURL,
		httpClient: params.HTTPClient,
		batchSize:  params.BatchSize,
		batchDelay: params.BatchDelay,
	}
}

// Fetch runs a single query and returns the flattened relationships.
func (c *Client) Fetch(ctx context.Context, query Query) ([]common.RawRelationship, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query broker: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read broker response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("broker returned status %d", resp.StatusCode)
	}

	var parsed Response
	if err := unmarshalFlexible(string(raw), &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode broker response: %w", err)
	}

	return parsed.Relationships(), nil
}

// FetchAll runs all queries in fixed-size concurrent batches with a fixed
// delay between batches, merging the results in query order per batch.
// Individual query failures are logged and skipped.
func (c *Client) FetchAll(ctx context.Context, queries []Query) ([]common.RawRelationship, error) {
	merged := make([]common.RawRelationship, 0)
	mergeMu := sync.Mutex{}

	for start := 0; start < len(queries); start += c.batchSize {
		end := min(start+c.batchSize, len(queries))
		batch := queries[start:end]

		results := make([][]common.RawRelationship, len(batch))

		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(c.batchSize)
		for i, query := range batch {
			g.Go(func() error {
				select {
				case <-gCtx.Done():
					return gCtx.Err()
				default:
					raws, err := c.Fetch(gCtx, query)
					if err != nil {
						logger.Warn("[Broker] Query failed, skipping", "query", query.Query, "err", err)
						return nil
					}

					mergeMu.Lock()
					results[i] = raws
					mergeMu.Unlock()
					return nil
				}
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}

		for _, raws := range results {
			merged = append(merged, raws...)
		}

		if end < len(queries) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.batchDelay):
			}
		}
	}

	return merged, nil
}
