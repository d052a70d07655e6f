package dto

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
	TS     int64  `json:"ts"`
}

type IDResponse struct {
	ID string `json:"id"`
}

type UploadResponse struct {
	URL       string `json:"url"`
	Key       string `json:"key"`
	ExpiresAt int64  `json:"expires_at"`
}

type MergeResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}
