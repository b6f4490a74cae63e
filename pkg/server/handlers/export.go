package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/totg"
)

// ExportHandler handles snapshot and statistics requests
type ExportHandler struct {
	client totg.TOTG
}

// NewExportHandler creates a new export handler
func NewExportHandler(client totg.TOTG) *ExportHandler {
	return &ExportHandler{client: client}
}

// ExportGraph handles GET /export
func (h *ExportHandler) ExportGraph(c *gin.Context) {
	c.JSON(http.StatusOK, h.client.ExportGraph())
}

// Statistics handles GET /statistics
func (h *ExportHandler) Statistics(c *gin.Context) {
	c.JSON(http.StatusOK, h.client.Statistics())
}
