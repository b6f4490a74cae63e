package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/totg"
	"github.com/soundprediction/totg/pkg/graph"
	"github.com/soundprediction/totg/pkg/server/dto"
	"github.com/soundprediction/totg/pkg/types"
)

// defaultWindowDays bounds reachability queries that omit a window.
const defaultWindowDays = 30

// DocumentHandler handles document ingestion and temporal queries
type DocumentHandler struct {
	client totg.TOTG
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(client totg.TOTG) *DocumentHandler {
	return &DocumentHandler{client: client}
}

// AddDocument handles POST /documents
func (h *DocumentHandler) AddDocument(c *gin.Context) {
	var req dto.AddDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := req.Validate(); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, err := h.client.AddDocumentISO(req.DocID, req.Content, req.Timestamp, req.Metadata)
	if err != nil {
		c.JSON(statusForError(err), result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// AddRelationship handles POST /relationships
func (h *DocumentHandler) AddRelationship(c *gin.Context) {
	var req dto.AddRelationshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := req.Validate(); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, err := h.client.AddRelationship(req.From, req.To, req.RelationType, req.WeightOrDefault(), req.Metadata)
	if err != nil {
		c.JSON(statusForError(err), result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetDocument handles GET /documents/:id
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	record, ok := h.client.GetDocument(c.Param("id"))
	if !ok {
		abortWithError(c, http.StatusNotFound, "not_found", types.ErrNodeNotFound)
		return
	}
	c.JSON(http.StatusOK, record)
}

// ListDocuments handles GET /documents
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	limit, ok := intQuery(c, "limit", 0)
	if !ok {
		abortWithError(c, http.StatusBadRequest, "invalid_request", dto.ErrInvalidInteger)
		return
	}

	// Range mode when both bounds are present.
	startRaw, endRaw := c.Query("start"), c.Query("end")
	if startRaw != "" && endRaw != "" {
		start, err := types.ParseTimestamp(startRaw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		end, err := types.ParseTimestamp(endRaw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"documents": h.client.DocumentsInRange(start, end)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": h.client.ListDocuments(limit)})
}

// FutureDocuments handles GET /documents/:id/future
func (h *DocumentHandler) FutureDocuments(c *gin.Context) {
	days, okDays := intQuery(c, "days", defaultWindowDays)
	maxResults, okMax := intQuery(c, "max_results", graph.DefaultMaxResults)
	if !okDays || !okMax {
		abortWithError(c, http.StatusBadRequest, "invalid_request", dto.ErrInvalidInteger)
		return
	}

	docs := h.client.FutureDocuments(c.Param("id"), days, maxResults)
	c.JSON(http.StatusOK, gin.H{"documents": docs, "count": len(docs)})
}

// PastDocuments handles GET /documents/:id/past
func (h *DocumentHandler) PastDocuments(c *gin.Context) {
	days, okDays := intQuery(c, "days", defaultWindowDays)
	maxResults, okMax := intQuery(c, "max_results", graph.DefaultMaxResults)
	if !okDays || !okMax {
		abortWithError(c, http.StatusBadRequest, "invalid_request", dto.ErrInvalidInteger)
		return
	}

	docs := h.client.PastDocuments(c.Param("id"), days, maxResults)
	c.JSON(http.StatusOK, gin.H{"documents": docs, "count": len(docs)})
}

// FindPath handles GET /path
func (h *DocumentHandler) FindPath(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		abortWithError(c, http.StatusBadRequest, "invalid_request", dto.ErrEmptyEndpoint)
		return
	}
	maxHops, ok := intQuery(c, "max_hops", graph.DefaultPathHops)
	if !ok {
		abortWithError(c, http.StatusBadRequest, "invalid_request", dto.ErrInvalidInteger)
		return
	}

	c.JSON(http.StatusOK, h.client.FindPath(from, to, maxHops))
}
