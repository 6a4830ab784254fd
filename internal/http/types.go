package http

import (
	"github.com/fyrsmithlabs/faultdx/internal/diagnosis"
	"github.com/fyrsmithlabs/faultdx/internal/knowledge"
)

// IndexResponse is the response body for GET /.
type IndexResponse struct {
	Message string `json:"mensaje"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status           string `json:"status"`
	KnowledgeVersion string `json:"knowledge_version"`
	Faults           int    `json:"faults"`
}

// KnowledgeResponse is the response body for GET /api/v1/knowledge.
type KnowledgeResponse struct {
	knowledge.Summary
	AttributeNames []knowledge.Attribute `json:"attribute_names"`
	Strategies     []string              `json:"strategies"`
	Threshold      float64               `json:"threshold"`
}

// DescriptionRequest is the request body for start, match and diagnose.
type DescriptionRequest struct {
	Description string `json:"description"`
	// Strategy is only read by POST /api/v1/diagnose.
	Strategy string `json:"strategy,omitempty"`
}

// ContinueRequest is the request body for POST /api/v1/diagnosis/continue.
type ContinueRequest struct {
	State  diagnosis.State `json:"state"`
	Answer string          `json:"answer"`
}

// LegacyRequest is the request body for POST /api/diagnostico.
type LegacyRequest struct {
	Description string `json:"descripcion"`
}

// ErrorResponse is the body of every API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Error codes used in API responses.
const (
	ErrorCodeInvalidRequest  = "INVALID_REQUEST"
	ErrorCodeNotFound        = "NOT_FOUND"
	ErrorCodeConflict        = "CONFLICT"
	ErrorCodeTooLarge        = "REQUEST_TOO_LARGE"
	ErrorCodeTooManyRequests = "TOO_MANY_REQUESTS"
	ErrorCodeInternalError   = "INTERNAL_ERROR"
)
