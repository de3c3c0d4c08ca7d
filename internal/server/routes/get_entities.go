package routes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/unitedtribes/culturegraph/internal/server/middleware"
	"github.com/unitedtribes/culturegraph/pkg/logger"
	"github.com/unitedtribes/culturegraph/pkg/store"
	graphstorage "github.com/unitedtribes/culturegraph/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// GetTopEntitiesHandler returns the ranked entities of a named graph,
// optionally truncated with ?limit=.
func GetTopEntitiesHandler(c echo.Context) error {
	name := c.Param("name")
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Missing graph name"})
	}

	limit := 0
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "limit must be a positive integer"})
		}
		limit = parsed
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	storageClient := graphstorage.NewGraphDBStorageWithConnection(conn)

	entities, err := storageClient.GetTopEntities(ctx, name, limit)
	if err != nil {
		if errors.Is(err, store.ErrGraphNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Graph not found"})
		}
		logger.Error("Failed to load top entities", "graph", name, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]any{"entities": entities})
}
