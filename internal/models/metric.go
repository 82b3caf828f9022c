package models

import (
	"fmt"
	"time"
)

// MetricIngestRequest is the POST /api/v1/ingest/metrics payload.
// Value is a pointer so that binding can tell an explicit 0 from a missing
// field; Unit stays nil when the client omits it.
type MetricIngestRequest struct {
	MetricName string   `json:"metricName" binding:"required"`
	Value      *float64 `json:"value" binding:"required"`
	Timestamp  string   `json:"timestamp" binding:"required"`
	Unit       *string  `json:"unit,omitempty"`
}

// String renders the request for the in-memory payload log.
func (r MetricIngestRequest) String() string {
	value := "<nil>"
	if r.Value != nil {
		value = fmt.Sprintf("%g", *r.Value)
	}
	unit := "<nil>"
	if r.Unit != nil {
		unit = *r.Unit
	}
	return fmt.Sprintf("metricName=%s value=%s timestamp=%s unit=%s", r.MetricName, value, r.Timestamp, unit)
}

// Metric is the persisted form of an ingested metric.
// ID and CreatedAt are assigned by the database on insert.
type Metric struct {
	ID         int64
	MetricName string
	Value      float64
	Timestamp  time.Time
	Unit       *string
	CreatedAt  time.Time
}
