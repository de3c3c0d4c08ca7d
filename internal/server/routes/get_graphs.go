package routes

import (
	"errors"
	"net/http"

	"github.com/unitedtribes/culturegraph/internal/server/middleware"
	"github.com/unitedtribes/culturegraph/pkg/logger"
	"github.com/unitedtribes/culturegraph/pkg/store"
	graphstorage "github.com/unitedtribes/culturegraph/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// GetGraphHandler returns the latest stored build of a named graph as the
// aggregated JSON document.
func GetGraphHandler(c echo.Context) error {
	name := c.Param("name")
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Missing graph name"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	storageClient := graphstorage.NewGraphDBStorageWithConnection(conn)

	result, err := storageClient.LoadGraph(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrGraphNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Graph not found"})
		}
		logger.Error("Failed to load graph", "graph", name, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	return c.JSON(http.StatusOK, result)
}

// GetGraphBuildHandler returns the latest build metadata of a named graph.
func GetGraphBuildHandler(c echo.Context) error {
	name := c.Param("name")
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Missing graph name"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	storageClient := graphstorage.NewGraphDBStorageWithConnection(conn)

	build, err := storageClient.GetLatestBuild(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrGraphNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Graph not found"})
		}
		logger.Error("Failed to load build", "graph", name, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	return c.JSON(http.StatusOK, build)
}
