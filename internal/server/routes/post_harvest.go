package routes

import (
	"encoding/json"
	"net/http"

	"github.com/unitedtribes/culturegraph/internal/queue"
	"github.com/unitedtribes/culturegraph/internal/server/middleware"
	"github.com/unitedtribes/culturegraph/pkg/logger"

	"github.com/labstack/echo/v4"
)

// HarvestHandler enqueues a batch of URLs for content harvesting.
func HarvestHandler(c echo.Context) error {
	type harvestBody struct {
		Source string   `json:"source" validate:"required"`
		URLs   []string `json:"urls" validate:"required,min=1,dive,url"`
	}

	type harvestResponse struct {
		Message string `json:"message"`
		Source  string `json:"source,omitempty"`
		URLs    int    `json:"urls,omitempty"`
	}

	data := new(harvestBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, harvestResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, harvestResponse{Message: "Invalid request body"})
	}

	msg, err := json.Marshal(queue.HarvestJobMsg{
		Source: data.Source,
		URLs:   data.URLs,
	})
	if err != nil {
		logger.Error("Failed to marshal harvest message", "source", data.Source, "err", err)
		return c.JSON(http.StatusInternalServerError, harvestResponse{Message: "Internal server error"})
	}

	ch := c.(*middleware.AppContext).App.Queue
	if err := queue.PublishFIFO(ch, "harvest_queue", msg); err != nil {
		logger.Error("Failed to enqueue harvest", "source", data.Source, "err", err)
		return c.JSON(http.StatusInternalServerError, harvestResponse{Message: "Internal server error"})
	}

	logger.Info("Enqueued harvest", "source", data.Source, "urls", len(data.URLs))

	return c.JSON(http.StatusAccepted, harvestResponse{
		Message: "Harvest enqueued",
		Source:  data.Source,
		URLs:    len(data.URLs),
	})
}
