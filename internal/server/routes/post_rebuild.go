package routes

import (
	"encoding/json"
	"net/http"

	"github.com/unitedtribes/culturegraph/internal/queue"
	"github.com/unitedtribes/culturegraph/internal/server/middleware"
	"github.com/unitedtribes/culturegraph/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RebuildGraphHandler enqueues a full rebuild of a named graph.
func RebuildGraphHandler(c echo.Context) error {
	type rebuildBody struct {
		Queries        []string `json:"queries" validate:"omitempty,dive,required"`
		QueryType      string   `json:"query_type" validate:"omitempty"`
		IncludeScraped bool     `json:"include_scraped"`
		Publish        bool     `json:"publish"`
	}

	type rebuildResponse struct {
		Message   string `json:"message"`
		GraphName string `json:"graph_name,omitempty"`
	}

	name := c.Param("name")
	if name == "" {
		return c.JSON(http.StatusBadRequest, rebuildResponse{Message: "Missing graph name"})
	}

	data := new(rebuildBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, rebuildResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, rebuildResponse{Message: "Invalid request body"})
	}

	msg, err := json.Marshal(queue.RebuildJobMsg{
		GraphName:      name,
		Queries:        data.Queries,
		QueryType:      data.QueryType,
		IncludeScraped: data.IncludeScraped,
		Publish:        data.Publish,
	})
	if err != nil {
		logger.Error("Failed to marshal rebuild message", "graph", name, "err", err)
		return c.JSON(http.StatusInternalServerError, rebuildResponse{Message: "Internal server error"})
	}

	ch := c.(*middleware.AppContext).App.Queue
	if err := queue.PublishFIFO(ch, "rebuild_queue", msg); err != nil {
		logger.Error("Failed to enqueue rebuild", "graph", name, "err", err)
		return c.JSON(http.StatusInternalServerError, rebuildResponse{Message: "Internal server error"})
	}

	logger.Info("Enqueued rebuild", "graph", name, "queries", len(data.Queries))

	return c.JSON(http.StatusAccepted, rebuildResponse{Message: "Rebuild enqueued", GraphName: name})
}
