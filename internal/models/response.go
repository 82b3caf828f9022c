package models

// IngestResponse is the body returned by the ingestion endpoints for both
// success (status "success") and validation failure (status "error").
type IngestResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
