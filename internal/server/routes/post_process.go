package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lumina-kb/backend/internal/server/middleware"
)

// ProcessDocumentHandler accepts an ingestion trigger and starts the run in
// the background. The response only acknowledges the start; progress is
// observable through the document's status.
func ProcessDocumentHandler(c echo.Context) error {
	type processBody struct {
		FileKey    string `json:"file_key" validate:"required"`
		DocumentID string `json:"document_id" validate:"required"`
	}

	cc := c.(*middleware.AppContext)

	data := new(processBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid request body",
		})
	}

	cc.App.Pipeline.StartRun(data.FileKey, data.DocumentID)

	return c.JSON(http.StatusOK, map[string]string{
		"status": "processing_started",
	})
}
