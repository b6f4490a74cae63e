package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/totg/pkg/server/dto"
	"github.com/soundprediction/totg/pkg/types"
)

// statusForError maps graph errors to HTTP status codes. Invalid input
// is the caller's fault, a missing anchor is not found, duplicates
// conflict, and everything else is a server error.
func statusForError(err error) int {
	switch {
	case errors.Is(err, types.ErrNodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, types.ErrEmptyID),
		errors.Is(err, types.ErrInvalidRelation),
		errors.Is(err, types.ErrMissingEndpoint),
		errors.Is(err, types.ErrInvalidTimestamp):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// abortWithError writes a structured error response
func abortWithError(c *gin.Context, status int, errCode string, err error) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{
		Error:   errCode,
		Message: err.Error(),
		Code:    status,
	})
}

// intQuery reads an integer query parameter with a fallback default
func intQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
