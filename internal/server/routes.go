package server

import (
	"github.com/labstack/echo/v4"

	"github.com/lumina-kb/backend/internal/server/routes"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ready"})
	})

	e.POST("/process", routes.ProcessDocumentHandler)
}
