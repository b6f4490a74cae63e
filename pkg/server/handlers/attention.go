package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/totg"
	"github.com/soundprediction/totg/pkg/attention"
	"github.com/soundprediction/totg/pkg/server/dto"
)

// AttentionHandler handles attention scoring requests
type AttentionHandler struct {
	client totg.TOTG
}

// NewAttentionHandler creates a new attention handler
func NewAttentionHandler(client totg.TOTG) *AttentionHandler {
	return &AttentionHandler{client: client}
}

// ComputeAttention handles GET /attention/:id
func (h *AttentionHandler) ComputeAttention(c *gin.Context) {
	maxNodes, ok := intQuery(c, "max_nodes", attention.DefaultMaxNodes)
	if !ok {
		abortWithError(c, http.StatusBadRequest, "invalid_request", dto.ErrInvalidInteger)
		return
	}

	// Unknown ids attend to nothing; that is an empty result, not an error.
	c.JSON(http.StatusOK, h.client.ComputeAttention(c.Param("id"), maxNodes))
}

// RelatedDocuments handles GET /related/:id
func (h *AttentionHandler) RelatedDocuments(c *gin.Context) {
	maxResults, ok := intQuery(c, "max_results", attention.DefaultMaxNodes)
	if !ok {
		abortWithError(c, http.StatusBadRequest, "invalid_request", dto.ErrInvalidInteger)
		return
	}

	direction := totg.Direction(c.DefaultQuery("direction", string(totg.DirectionBoth)))
	switch direction {
	case totg.DirectionForward, totg.DirectionBackward, totg.DirectionBoth:
	default:
		abortWithError(c, http.StatusBadRequest, "invalid_request", dto.ErrInvalidDirection)
		return
	}

	related := h.client.RelatedDocuments(c.Param("id"), maxResults, direction)
	c.JSON(http.StatusOK, gin.H{"doc_id": c.Param("id"), "related": related})
}
