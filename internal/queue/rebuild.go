package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/unitedtribes/culturegraph/internal/storage"
	"github.com/unitedtribes/culturegraph/internal/util"
	"github.com/unitedtribes/culturegraph/pkg/broker"
	"github.com/unitedtribes/culturegraph/pkg/common"
	"github.com/unitedtribes/culturegraph/pkg/graph"
	"github.com/unitedtribes/culturegraph/pkg/harvest"
	"github.com/unitedtribes/culturegraph/pkg/leaselock"
	"github.com/unitedtribes/culturegraph/pkg/logger"
	graphstorage "github.com/unitedtribes/culturegraph/pkg/store/pgx"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"
)

// ProcessRebuildMessage rebuilds a named graph from scratch: query the
// broker for every configured entity, optionally merge relationships from
// the scraped content lake, aggregate, and replace the stored graph.
func ProcessRebuildMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	ch *amqp091.Channel,
	conn *pgxpool.Pool,
	msg string,
) error {
	data := new(RebuildJobMsg)
	if err := json.Unmarshal([]byte(msg), &data); err != nil {
		return err
	}
	if data.GraphName == "" {
		return fmt.Errorf("rebuild message missing graph_name")
	}

	lockClient := leaselock.New(conn)
	lease, err := lockClient.Acquire(ctx, "graph:"+data.GraphName, leaselock.Options{
		TTL:         10 * time.Minute,
		RenewEvery:  4 * time.Minute,
		Wait:        true,
		TokenPrefix: fmt.Sprintf("rebuild/%s/", data.GraphName),
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = lease.Release(context.Background())
	}()

	start := time.Now()

	queries := data.Queries
	if len(queries) == 0 {
		queries = graph.TrackedMusicians()
	}
	queryType := data.QueryType
	if queryType == "" {
		queryType = "connections"
	}

	brokerQueries := make([]broker.Query, len(queries))
	for i, q := range queries {
		brokerQueries[i] = broker.Query{Query: q, Type: queryType}
	}

	brokerClient := broker.NewClient(broker.NewClientParams{
		BaseURL:    util.GetEnv("BROKER_URL"),
		BatchSize:  int(util.GetEnvNumeric("BROKER_BATCH_SIZE", broker.DefaultBatchSize)),
		BatchDelay: time.Duration(util.GetEnvNumeric("BROKER_BATCH_DELAY_MS", 2000)) * time.Millisecond,
	})

	logger.Info("[Queue] Rebuild querying broker", "graph", data.GraphName, "queries", len(brokerQueries))
	raws, err := brokerClient.FetchAll(lease.Context, brokerQueries)
	if err != nil {
		return fmt.Errorf("failed to fetch broker relationships: %w", err)
	}

	if data.IncludeScraped {
		scraped, err := scrapedRelationships(lease.Context, s3Client)
		if err != nil {
			return err
		}
		logger.Info("[Queue] Rebuild merging scraped content", "graph", data.GraphName, "relationships", len(scraped))
		raws = append(raws, scraped...)
	}

	aggregator := graph.NewAggregator(graph.NewAggregatorParams{})
	result := aggregator.Aggregate(raws)

	storageClient := graphstorage.NewGraphDBStorageWithConnection(conn)
	build, err := storageClient.SaveGraph(lease.Context, data.GraphName, result)
	if err != nil {
		return fmt.Errorf("failed to save graph: %w", err)
	}

	logger.Info("[Queue] Rebuild completed",
		"graph", data.GraphName, "build", build.ID,
		"relationships", build.Relationships, "entities", build.Entities,
		"duration_sec", time.Since(start).Seconds())

	if data.Publish {
		publishMsg, err := json.Marshal(PublishJobMsg{GraphName: data.GraphName})
		if err != nil {
			return err
		}
		if err := PublishFIFO(ch, "publish_queue", publishMsg); err != nil {
			return fmt.Errorf("failed to enqueue publish job: %w", err)
		}
	}

	return nil
}

// scrapedRelationships replays the content lake through the mention
// detector, the same extraction harvest applies to fresh articles.
func scrapedRelationships(ctx context.Context, s3Client *awss3.Client) ([]common.RawRelationship, error) {
	keys, err := storage.ListFilesWithPrefix(ctx, s3Client, "scraped-content/")
	if err != nil {
		return nil, fmt.Errorf("failed to list scraped content: %w", err)
	}

	detector := harvest.NewDetector()

	raws := make([]common.RawRelationship, 0)
	for _, key := range keys {
		body, err := storage.GetFile(ctx, s3Client, key)
		if err != nil {
			logger.Warn("[Queue] Skipping unreadable scraped content", "key", key, "err", err)
			continue
		}

		var content harvest.Content
		if err := json.Unmarshal(body, &content); err != nil {
			logger.Warn("[Queue] Skipping malformed scraped content", "key", key, "err", err)
			continue
		}

		raws = append(raws, detector.Relationships(&content)...)
	}

	return raws, nil
}
