package models

import (
	"fmt"
	"time"
)

// EventIngestRequest is the POST /api/v1/ingest/events payload.
// Timestamp is an RFC3339 instant; properties values may be any JSON type
// and are normalized to text before persistence.
type EventIngestRequest struct {
	EventName  string         `json:"eventName" binding:"required"`
	Timestamp  string         `json:"timestamp" binding:"required"`
	Properties map[string]any `json:"properties,omitempty"`
}

// String renders the request for the in-memory payload log.
func (r EventIngestRequest) String() string {
	return fmt.Sprintf("eventName=%s timestamp=%s properties=%v", r.EventName, r.Timestamp, r.Properties)
}

// Event is the persisted form of an ingested event.
// ID and CreatedAt are assigned by the database on insert; a nil property
// value records a JSON null.
type Event struct {
	ID         int64
	EventName  string
	Timestamp  time.Time
	Properties map[string]*string
	CreatedAt  time.Time
}
