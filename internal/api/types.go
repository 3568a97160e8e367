package api

// SummaryRequest represents the request payload for session summarization
type SummaryRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

// SummaryResponse represents the response payload for session summarization
type SummaryResponse struct {
	SessionID string `json:"session_id"`
	Summary   string `json:"summary"`
	Source    string `json:"source"` // "external" or "local"
}

// HealthResponse represents the liveness check payload
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
