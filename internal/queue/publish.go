package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/unitedtribes/culturegraph/internal/util"
	"github.com/unitedtribes/culturegraph/pkg/leaselock"
	"github.com/unitedtribes/culturegraph/pkg/logger"
	"github.com/unitedtribes/culturegraph/pkg/publish"
	graphstorage "github.com/unitedtribes/culturegraph/pkg/store/pgx"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"
)

// ProcessPublishMessage uploads the latest stored build of a graph to the
// public S3 layout.
func ProcessPublishMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	ch *amqp091.Channel,
	conn *pgxpool.Pool,
	msg string,
) error {
	data := new(PublishJobMsg)
	if err := json.Unmarshal([]byte(msg), &data); err != nil {
		return err
	}
	if data.GraphName == "" {
		return fmt.Errorf("publish message missing graph_name")
	}

	lockClient := leaselock.New(conn)
	lease, err := lockClient.Acquire(ctx, "graph:"+data.GraphName, leaselock.Options{
		TTL:         5 * time.Minute,
		RenewEvery:  2 * time.Minute,
		Wait:        true,
		TokenPrefix: fmt.Sprintf("publish/%s/", data.GraphName),
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = lease.Release(context.Background())
	}()

	storageClient := graphstorage.NewGraphDBStorageWithConnection(conn)
	result, err := storageClient.LoadGraph(lease.Context, data.GraphName)
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}

	publisher := publish.NewPublisher(publish.NewPublisherParams{
		S3Client: s3Client,
		Prefix:   util.GetEnvString("PUBLISH_PREFIX", "network"),
	})

	publication, err := publisher.Publish(lease.Context, data.GraphName, *result)
	if err != nil {
		return err
	}

	logger.Info("[Queue] Publish completed",
		"graph", data.GraphName, "current", publication.CurrentKey)

	return nil
}
