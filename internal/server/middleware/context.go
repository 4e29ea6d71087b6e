package middleware

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"github.com/lumina-kb/backend/internal/storage"
	"github.com/lumina-kb/backend/pkg/pipeline"
)

// App bundles the long-lived dependencies handlers reach for.
type App struct {
	DBConn   *pgxpool.Pool
	S3       *storage.S3Store
	Pipeline *pipeline.Pipeline
}

// AppContext wraps the echo context with the application dependencies.
type AppContext struct {
	echo.Context
	App *App
}

// AppContextMiddleware attaches the App to every request context.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&AppContext{c, app})
		}
	}
}
