package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/totg"
	"github.com/soundprediction/totg/pkg/markovian"
	"github.com/soundprediction/totg/pkg/server/dto"
)

// AnalysisHandler handles long-chain analysis requests
type AnalysisHandler struct {
	client totg.TOTG
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(client totg.TOTG) *AnalysisHandler {
	return &AnalysisHandler{client: client}
}

// Analyze handles POST /analyze. The analysis runs synchronously on the
// request context so client disconnects cancel it.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := req.Validate(); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	maxDays := req.MaxDays
	if maxDays == 0 {
		maxDays = markovian.DefaultMaxDays
	}

	result, err := h.client.AnalyzeLongChain(c.Request.Context(), req.StartDocID, req.EndDocID, maxDays)
	if err != nil {
		abortWithError(c, statusForError(err), "analysis_failed", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// TemporalSummary handles POST /summary
func (h *AnalysisHandler) TemporalSummary(c *gin.Context) {
	var req dto.SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := req.Validate(); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	numChunks := req.NumChunks
	if numChunks == 0 {
		numChunks = 10
	}

	summaries, err := h.client.TemporalSummary(c.Request.Context(), req.StartDocID, req.EndDocID, numChunks)
	if err != nil {
		abortWithError(c, statusForError(err), "summary_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summaries": summaries, "count": len(summaries)})
}
