package harvest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/unitedtribes/culturegraph/internal/storage"
	"github.com/unitedtribes/culturegraph/internal/util"
	"github.com/unitedtribes/culturegraph/pkg/common"
	"github.com/unitedtribes/culturegraph/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"
)

// ErrContentRejected marks content that failed validation, as opposed to a
// fetch or storage failure.
var ErrContentRejected = errors.New("content rejected")

// Result summarizes one harvest run.
type Result struct {
	Harvested     int                      `json:"harvested"`
	Rejected      int                      `json:"rejected"`
	Failed        int                      `json:"failed"`
	Relationships []common.RawRelationship `json:"relationships"`
}

// Harvester runs the article pipeline: fetch, extract, validate, store in
// the content lake, and emit mention relationships for the aggregator.
type Harvester struct {
	fetcher     *Fetcher
	validator   *Validator
	detector    *Detector
	s3Client    *s3.Client
	parallelMax int
	maxRetries  int
}

// NewHarvesterParams holds the configuration for creating a harvester.
type NewHarvesterParams struct {
	Fetcher     *Fetcher
	Validator   *Validator
	Detector    *Detector
	S3Client    *s3.Client
	ParallelMax int
	MaxRetries  int
}

// NewHarvester creates a harvester. Zero-value params fall back to defaults.
// A nil S3Client disables the content lake upload, which the tests use.
func NewHarvester(params NewHarvesterParams) *Harvester {
	if params.Fetcher == nil {
		params.Fetcher = NewFetcher(NewFetcherParams{})
	}
	if params.Validator == nil {
		params.Validator = NewValidator()
	}
	if params.Detector == nil {
		params.Detector = NewDetector()
	}
	if params.ParallelMax <= 0 {
		params.ParallelMax = 4
	}
	if params.MaxRetries <= 0 {
		params.MaxRetries = 3
	}

	return &Harvester{
		fetcher:     params.Fetcher,
		validator:   params.Validator,
		detector:    params.Detector,
		s3Client:    params.S3Client,
		parallelMax: params.ParallelMax,
		maxRetries:  params.MaxRetries,
	}
}

// HarvestURL runs the pipeline for a single article URL.
func (h *Harvester) HarvestURL(ctx context.Context, pageURL string, source string) (*Content, []common.RawRelationship, error) {
	article, err := h.fetcher.FetchArticle(ctx, pageURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch article: %w", err)
	}

	content, err := NewContent(pageURL, article.Title, article.Text, SourceAttribution{
		Source:          source,
		Title:           article.Title,
		URL:             pageURL,
		PublicationType: "article",
	})
	if err != nil {
		return nil, nil, err
	}

	validation := h.validator.Validate(content)
	if !validation.Passed {
		return nil, nil, fmt.Errorf("%w: %v", ErrContentRejected, validation.Errors)
	}
	for _, warning := range validation.Warnings {
		logger.Warn("[Harvest] Content warning", "url", pageURL, "warning", warning)
	}

	if h.s3Client != nil {
		if err := h.storeContent(ctx, content); err != nil {
			return nil, nil, err
		}
	}

	return content, h.detector.Relationships(content), nil
}

// HarvestBatch runs the pipeline for a set of article URLs concurrently.
// Per-URL failures and rejections are counted, not fatal.
func (h *Harvester) HarvestBatch(ctx context.Context, urls []string, source string) (*Result, error) {
	result := &Result{Relationships: make([]common.RawRelationship, 0)}
	mergeMu := sync.Mutex{}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(h.parallelMax)
	for _, pageURL := range urls {
		g.Go(func() error {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			default:
				content, raws, err := h.HarvestURL(gCtx, pageURL, source)

				mergeMu.Lock()
				defer mergeMu.Unlock()
				if err != nil {
					logger.Warn("[Harvest] Skipping url", "url", pageURL, "err", err)
					if errors.Is(err, ErrContentRejected) {
						result.Rejected++
					} else {
						result.Failed++
					}
					return nil
				}
				result.Harvested++
				result.Relationships = append(result.Relationships, raws...)
				logger.Info("[Harvest] Stored content",
					"url", pageURL, "key", content.S3Key, "relationships", len(raws))
				return nil
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}

func (h *Harvester) storeContent(ctx context.Context, content *Content) error {
	body, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to encode content: %w", err)
	}

	return util.RetryErrWithContext(ctx, h.maxRetries, func(ctx context.Context) error {
		return storage.PutFile(ctx, h.s3Client, content.S3Key, "application/json", bytes.NewReader(body))
	})
}
