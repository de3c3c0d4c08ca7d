// Package publish writes aggregated graphs to the public S3 layout consumed
// by the visualization layer: a stable current object plus a timestamped
// backup written first, so a failed upload never leaves the current object
// as the only copy.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/unitedtribes/culturegraph/internal/storage"
	"github.com/unitedtribes/culturegraph/internal/util"
	"github.com/unitedtribes/culturegraph/pkg/common"
	"github.com/unitedtribes/culturegraph/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Publication reports where a graph was published.
type Publication struct {
	GraphName   string    `json:"graph_name"`
	CurrentKey  string    `json:"current_key"`
	BackupKey   string    `json:"backup_key"`
	PublishedAt time.Time `json:"published_at"`
}

// Publisher uploads aggregation results to S3.
type Publisher struct {
	prefix     string
	maxRetries int

	put  func(ctx context.Context, key string, contentType string, body io.Reader) error
	copy func(ctx context.Context, sourceKey string, targetKey string) error
}

// NewPublisherParams holds the configuration for creating a publisher.
type NewPublisherParams struct {
	S3Client   *s3.Client
	Prefix     string
	MaxRetries int
}

// NewPublisher creates a publisher. Zero-value params fall back to defaults.
func NewPublisher(params NewPublisherParams) *Publisher {
	if params.Prefix == "" {
		params.Prefix = "network"
	}
	if params.MaxRetries <= 0 {
		params.MaxRetries = 3
	}

	p := &Publisher{
		prefix:     params.Prefix,
		maxRetries: params.MaxRetries,
	}
	if params.S3Client != nil {
		p.put = func(ctx context.Context, key string, contentType string, body io.Reader) error {
			return storage.PutFile(ctx, params.S3Client, key, contentType, body)
		}
		p.copy = func(ctx context.Context, sourceKey string, targetKey string) error {
			return storage.CopyFile(ctx, params.S3Client, sourceKey, targetKey)
		}
	}
	return p
}

// CurrentKey returns the stable object key for a graph name.
func (p *Publisher) CurrentKey(name string) string {
	return fmt.Sprintf("%s/%s/current/latest.json", p.prefix, name)
}

// Publish serializes the result and uploads it. The result's GeneratedAt is
// stamped with the publication time.
func (p *Publisher) Publish(ctx context.Context, name string, result common.Result) (*Publication, error) {
	now := time.Now().UTC()
	result.Metadata.GeneratedAt = now

	body, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode graph: %w", err)
	}

	publication := &Publication{
		GraphName:  name,
		CurrentKey: p.CurrentKey(name),
		BackupKey: fmt.Sprintf("%s/%s/backups/rebuild_%s.json",
			p.prefix, name, now.Format("2006-01-02T15-04-05")),
		PublishedAt: now,
	}

	// The new build lands under backups/ first; the current object is then
	// produced from it with a server-side copy. A failed copy leaves the
	// previous current object untouched while the new build is already
	// durable under backups/.
	err = util.RetryErrWithContext(ctx, p.maxRetries, func(ctx context.Context) error {
		return p.put(ctx, publication.BackupKey, "application/json", bytes.NewReader(body))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", publication.BackupKey, err)
	}

	err = util.RetryErrWithContext(ctx, p.maxRetries, func(ctx context.Context) error {
		return p.copy(ctx, publication.BackupKey, publication.CurrentKey)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to copy %s to %s: %w",
			publication.BackupKey, publication.CurrentKey, err)
	}

	logger.Info("[Publish] Published graph",
		"graph", name, "current", publication.CurrentKey, "backup", publication.BackupKey)

	return publication, nil
}
