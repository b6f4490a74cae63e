package dto

import (
	"strings"
)

// AddDocumentRequest represents a request to add a document to the graph
type AddDocumentRequest struct {
	DocID     string                 `json:"doc_id" binding:"required"`
	Content   string                 `json:"content"`
	Timestamp string                 `json:"timestamp,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Validate performs validation on AddDocumentRequest
func (r *AddDocumentRequest) Validate() error {
	if strings.TrimSpace(r.DocID) == "" {
		return ErrEmptyDocID
	}
	if len(r.DocID) > MaxDocIDLength {
		return ErrDocIDTooLong
	}
	if len(r.Content) > MaxContentLength {
		return ErrContentTooLong
	}
	if len(r.Metadata) > MaxMetadataCount {
		return ErrTooManyMetadata
	}
	return nil
}

// AddRelationshipRequest represents a request to link two documents
type AddRelationshipRequest struct {
	From         string                 `json:"from" binding:"required"`
	To           string                 `json:"to" binding:"required"`
	RelationType string                 `json:"relation_type" binding:"required"`
	Weight       *float64               `json:"weight,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// Validate performs validation on AddRelationshipRequest
func (r *AddRelationshipRequest) Validate() error {
	if strings.TrimSpace(r.From) == "" || strings.TrimSpace(r.To) == "" {
		return ErrEmptyEndpoint
	}
	if len(r.From) > MaxDocIDLength || len(r.To) > MaxDocIDLength {
		return ErrDocIDTooLong
	}
	if strings.TrimSpace(r.RelationType) == "" {
		return ErrEmptyRelation
	}
	if r.Weight != nil && *r.Weight < 0 {
		return ErrNegativeWeight
	}
	if len(r.Metadata) > MaxMetadataCount {
		return ErrTooManyMetadata
	}
	return nil
}

// WeightOrDefault returns the requested edge weight, defaulting to 1.0.
func (r *AddRelationshipRequest) WeightOrDefault() float64 {
	if r.Weight == nil {
		return 1.0
	}
	return *r.Weight
}

// AnalyzeRequest represents a request to run long-chain analysis
type AnalyzeRequest struct {
	StartDocID string `json:"start_doc_id" binding:"required"`
	EndDocID   string `json:"end_doc_id,omitempty"`
	MaxDays    int    `json:"max_days,omitempty"`
}

// Validate performs validation on AnalyzeRequest
func (r *AnalyzeRequest) Validate() error {
	if strings.TrimSpace(r.StartDocID) == "" {
		return ErrEmptyDocID
	}
	if r.MaxDays < 0 || r.MaxDays > MaxAnalysisDays {
		return ErrInvalidMaxDays
	}
	return nil
}

// SummaryRequest represents a request for a per-period digest
type SummaryRequest struct {
	StartDocID string `json:"start_doc_id" binding:"required"`
	EndDocID   string `json:"end_doc_id" binding:"required"`
	NumChunks  int    `json:"num_chunks,omitempty"`
}

// Validate performs validation on SummaryRequest
func (r *SummaryRequest) Validate() error {
	if strings.TrimSpace(r.StartDocID) == "" || strings.TrimSpace(r.EndDocID) == "" {
		return ErrEmptyDocID
	}
	if r.NumChunks < 0 || r.NumChunks > MaxSummaryChunks {
		return ErrInvalidNumChunks
	}
	return nil
}

// IngestResponse represents a response from ingest operations
type IngestResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	DocID   string `json:"doc_id,omitempty"`
}
