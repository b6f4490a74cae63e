package dto

import "errors"

// Validation errors
var (
	ErrEmptyDocID       = errors.New("doc_id cannot be empty")
	ErrEmptyEndpoint    = errors.New("from and to cannot be empty")
	ErrEmptyRelation    = errors.New("relation_type cannot be empty")
	ErrDocIDTooLong     = errors.New("doc_id exceeds maximum length (256)")
	ErrContentTooLong   = errors.New("content exceeds maximum length (1MB)")
	ErrNegativeWeight   = errors.New("weight cannot be negative")
	ErrInvalidMaxDays   = errors.New("max_days cannot be negative")
	ErrTooManyMetadata  = errors.New("metadata count exceeds maximum (100)")
	ErrInvalidNumChunks = errors.New("num_chunks must be positive")
	ErrInvalidDirection = errors.New("direction must be forward, backward, or both")
	ErrInvalidInteger   = errors.New("query parameter must be an integer")
)

// MaxFieldLengths defines maximum lengths for fields to prevent abuse
const (
	MaxDocIDLength    = 256
	MaxContentLength  = 1024 * 1024 // 1MB
	MaxMetadataCount  = 100
	MaxAnalysisDays   = 36500
	MaxSummaryChunks  = 1000
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// Result represents a generic API result
type Result struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}
