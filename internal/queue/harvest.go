package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/unitedtribes/culturegraph/internal/util"
	"github.com/unitedtribes/culturegraph/pkg/harvest"
	"github.com/unitedtribes/culturegraph/pkg/logger"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"
)

// ProcessHarvestMessage scrapes a batch of article URLs into the content
// lake. Relationships are extracted from the lake at rebuild time, so a
// failed harvest only delays content, never corrupts a graph.
func ProcessHarvestMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	ch *amqp091.Channel,
	conn *pgxpool.Pool,
	msg string,
) error {
	data := new(HarvestJobMsg)
	if err := json.Unmarshal([]byte(msg), &data); err != nil {
		return err
	}
	if data.Source == "" {
		return fmt.Errorf("harvest message missing source")
	}
	if len(data.URLs) == 0 {
		logger.Warn("[Queue] Harvest message has no urls", "source", data.Source)
		return nil
	}

	harvester := harvest.NewHarvester(harvest.NewHarvesterParams{
		S3Client:    s3Client,
		ParallelMax: int(util.GetEnvNumeric("HARVEST_PARALLEL_MAX", 4)),
	})

	result, err := harvester.HarvestBatch(ctx, data.URLs, data.Source)
	if err != nil {
		return err
	}

	logger.Info("[Queue] Harvest completed",
		"source", data.Source, "urls", len(data.URLs),
		"harvested", result.Harvested, "rejected", result.Rejected, "failed", result.Failed)

	return nil
}
