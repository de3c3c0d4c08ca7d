package routes

import (
	"encoding/json"
	"net/http"

	"github.com/unitedtribes/culturegraph/internal/queue"
	"github.com/unitedtribes/culturegraph/internal/server/middleware"
	"github.com/unitedtribes/culturegraph/internal/storage"
	"github.com/unitedtribes/culturegraph/internal/util"
	"github.com/unitedtribes/culturegraph/pkg/logger"
	"github.com/unitedtribes/culturegraph/pkg/publish"

	"github.com/labstack/echo/v4"
)

// PublishGraphHandler enqueues publication of the stored graph snapshot.
func PublishGraphHandler(c echo.Context) error {
	type publishResponse struct {
		Message   string `json:"message"`
		GraphName string `json:"graph_name,omitempty"`
	}

	name := c.Param("name")
	if name == "" {
		return c.JSON(http.StatusBadRequest, publishResponse{Message: "Missing graph name"})
	}

	msg, err := json.Marshal(queue.PublishJobMsg{GraphName: name})
	if err != nil {
		logger.Error("Failed to marshal publish message", "graph", name, "err", err)
		return c.JSON(http.StatusInternalServerError, publishResponse{Message: "Internal server error"})
	}

	ch := c.(*middleware.AppContext).App.Queue
	if err := queue.PublishFIFO(ch, "publish_queue", msg); err != nil {
		logger.Error("Failed to enqueue publish", "graph", name, "err", err)
		return c.JSON(http.StatusInternalServerError, publishResponse{Message: "Internal server error"})
	}

	logger.Info("Enqueued publish", "graph", name)

	return c.JSON(http.StatusAccepted, publishResponse{Message: "Publish enqueued", GraphName: name})
}

// GetPublishedGraphHandler returns a presigned link to the published snapshot.
func GetPublishedGraphHandler(c echo.Context) error {
	type downloadResponse struct {
		Message string `json:"message"`
		URL     string `json:"url,omitempty"`
	}

	name := c.Param("name")
	if name == "" {
		return c.JSON(http.StatusBadRequest, downloadResponse{Message: "Missing graph name"})
	}

	publisher := publish.NewPublisher(publish.NewPublisherParams{
		Prefix: util.GetEnvString("PUBLISH_PREFIX", "network"),
	})
	key := publisher.CurrentKey(name)

	s3Client := c.(*middleware.AppContext).App.S3
	url, err := storage.GenerateDownloadLink(c.Request().Context(), s3Client, key)
	if err != nil {
		logger.Error("Failed to presign published snapshot", "graph", name, "err", err)
		return c.JSON(http.StatusInternalServerError, downloadResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, downloadResponse{Message: "OK", URL: url})
}
