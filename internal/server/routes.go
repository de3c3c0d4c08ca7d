package server

import (
	"github.com/unitedtribes/culturegraph/internal/server/middleware"
	"github.com/unitedtribes/culturegraph/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Graph routes
	apiRoutes.GET("/graphs/:name", routes.GetGraphHandler, middleware.RequirePermission("graph.view"))
	apiRoutes.GET("/graphs/:name/build", routes.GetGraphBuildHandler, middleware.RequirePermission("graph.view"))
	apiRoutes.GET("/graphs/:name/entities", routes.GetTopEntitiesHandler, middleware.RequirePermission("graph.view"))
	apiRoutes.GET("/graphs/:name/published", routes.GetPublishedGraphHandler, middleware.RequirePermission("graph.view"))
	apiRoutes.POST("/graphs/:name/rebuild", routes.RebuildGraphHandler, middleware.RequirePermission("graph.rebuild"))
	apiRoutes.POST("/graphs/:name/publish", routes.PublishGraphHandler, middleware.RequirePermission("graph.publish"))
	apiRoutes.DELETE("/graphs/:name", routes.DeleteGraphHandler, middleware.RequirePermission("graph.delete"))

	// Harvest routes
	apiRoutes.POST("/harvest", routes.HarvestHandler, middleware.RequirePermission("harvest.run"))
}
