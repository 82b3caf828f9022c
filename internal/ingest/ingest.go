// Package ingest implements the single-record ingestion pipeline:
// normalize, persist, then mirror a summary into the payload log.
package ingest

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ehrlabs/analytics-ingestion/internal/models"
	"github.com/ehrlabs/analytics-ingestion/internal/normalize"
	"github.com/ehrlabs/analytics-ingestion/internal/payloadlog"
)

// Store is the persistence surface the pipeline writes through.
type Store interface {
	InsertEvent(ctx context.Context, name string, ts time.Time, properties map[string]*string) (models.Event, error)
	InsertMetric(ctx context.Context, name string, value float64, ts time.Time, unit *string) (models.Metric, error)
}

// Service wires the store and the payload log together. Requests reaching
// it have already passed field validation at the HTTP boundary.
type Service struct {
	store    Store
	payloads *payloadlog.Log
}

// New returns a Service writing through store and mirroring into payloads.
func New(store Store, payloads *payloadlog.Log) *Service {
	return &Service{store: store, payloads: payloads}
}

// IngestEvent normalizes and persists one event, then records it in the
// payload log. The log entry is written only after a successful persist,
// so the debug log mirrors successes only. ts must be the parsed form of
// req.Timestamp; the handler parses once and hands both down so the logged
// text and the persisted instant cannot drift.
func (s *Service) IngestEvent(ctx context.Context, req models.EventIngestRequest, ts time.Time) error {
	log.Printf("ingest: event %s", req.EventName)

	props := normalize.Properties(req.Properties)

	ev, err := s.store.InsertEvent(ctx, req.EventName, ts, props)
	if err != nil {
		return fmt.Errorf("persist event: %w", err)
	}
	log.Printf("ingest: event persisted with id %d", ev.ID)

	s.payloads.Append("[EVENT] " + req.String())
	return nil
}

// IngestMetric persists one metric, then records it in the payload log.
// ts must be the parsed form of req.Timestamp, as with IngestEvent.
func (s *Service) IngestMetric(ctx context.Context, req models.MetricIngestRequest, ts time.Time) error {
	log.Printf("ingest: metric %s", req.MetricName)

	m, err := s.store.InsertMetric(ctx, req.MetricName, *req.Value, ts, req.Unit)
	if err != nil {
		return fmt.Errorf("persist metric: %w", err)
	}
	log.Printf("ingest: metric persisted with id %d", m.ID)

	s.payloads.Append("[METRIC] " + req.String())
	return nil
}
