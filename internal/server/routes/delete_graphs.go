package routes

import (
	"fmt"
	"net/http"

	"github.com/unitedtribes/culturegraph/internal/server/middleware"
	"github.com/unitedtribes/culturegraph/internal/storage"
	"github.com/unitedtribes/culturegraph/internal/util"
	"github.com/unitedtribes/culturegraph/pkg/logger"
	graphstorage "github.com/unitedtribes/culturegraph/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// DeleteGraphHandler removes a stored graph, its build history, and its
// published S3 objects.
func DeleteGraphHandler(c echo.Context) error {
	name := c.Param("name")
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Missing graph name"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	storageClient := graphstorage.NewGraphDBStorageWithConnection(conn)

	if err := storageClient.DeleteGraph(ctx, name); err != nil {
		logger.Error("Failed to delete graph", "graph", name, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	// Published snapshots live under <prefix>/<name>/. Both deletions are
	// idempotent, so a failed S3 sweep can be retried with another DELETE.
	s3Client := c.(*middleware.AppContext).App.S3
	publishPrefix := util.GetEnvString("PUBLISH_PREFIX", "network")
	folder := fmt.Sprintf("%s/%s/", publishPrefix, name)
	if err := storage.DeleteFolder(ctx, s3Client, folder); err != nil {
		logger.Error("Failed to delete published objects", "graph", name, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	logger.Info("Deleted graph", "graph", name)

	return c.JSON(http.StatusOK, map[string]string{"message": "Graph deleted"})
}
