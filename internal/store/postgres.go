package store

import (
	"context"
	_ "embed"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ehrlabs/analytics-ingestion/internal/models"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// PostgresStore is the durable persistence layer for events and metrics.
// IDs are bigserial surrogates and created_at is assigned by the database
// at insert time; caller-supplied fields are stored unchanged.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema() error {
	_, err := p.pool.Exec(context.Background(), schemaSQL)
	return err
}

// Ping is used by readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

// InsertEvent persists one event and its properties in a single transaction
// and returns the stored record with its database-assigned id and created_at.
// A nil property value is stored as SQL NULL.
func (p *PostgresStore) InsertEvent(
	ctx context.Context,
	name string,
	ts time.Time,
	properties map[string]*string,
) (models.Event, error) {

	if name == "" {
		return models.Event{}, errors.New("event name required")
	}
	if properties == nil {
		properties = map[string]*string{}
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return models.Event{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ev := models.Event{EventName: name, Timestamp: ts, Properties: properties}
	err = tx.QueryRow(ctx, `
		INSERT INTO events(event_name, ts)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, name, ts).Scan(&ev.ID, &ev.CreatedAt)
	if err != nil {
		return models.Event{}, err
	}

	for key, value := range properties {
		if _, err := tx.Exec(ctx, `
			INSERT INTO event_properties(event_id, property_key, property_value)
			VALUES ($1, $2, $3)
		`, ev.ID, key, value); err != nil {
			return models.Event{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Event{}, err
	}
	return ev, nil
}

// InsertMetric persists one metric and returns the stored record with its
// database-assigned id and created_at. A nil unit is stored as SQL NULL.
func (p *PostgresStore) InsertMetric(
	ctx context.Context,
	name string,
	value float64,
	ts time.Time,
	unit *string,
) (models.Metric, error) {

	if name == "" {
		return models.Metric{}, errors.New("metric name required")
	}

	m := models.Metric{MetricName: name, Value: value, Timestamp: ts, Unit: unit}
	err := p.pool.QueryRow(ctx, `
		INSERT INTO metrics(metric_name, metric_value, ts, unit)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, name, value, ts, unit).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return models.Metric{}, err
	}
	return m, nil
}

// FindEventsByName returns all events with the exact name, oldest first.
func (p *PostgresStore) FindEventsByName(ctx context.Context, name string) ([]models.Event, error) {
	return p.queryEvents(ctx, `
		SELECT id, event_name, ts, created_at
		FROM events
		WHERE event_name = $1
		ORDER BY id
	`, name)
}

// FindEventsByTimestampRange returns events with from <= ts <= to, oldest
// first. Both bounds are inclusive.
func (p *PostgresStore) FindEventsByTimestampRange(ctx context.Context, from, to time.Time) ([]models.Event, error) {
	return p.queryEvents(ctx, `
		SELECT id, event_name, ts, created_at
		FROM events
		WHERE ts >= $1 AND ts <= $2
		ORDER BY id
	`, from, to)
}

// FindMetricsByName returns all metrics with the exact name, oldest first.
func (p *PostgresStore) FindMetricsByName(ctx context.Context, name string) ([]models.Metric, error) {
	return p.queryMetrics(ctx, `
		SELECT id, metric_name, metric_value, ts, unit, created_at
		FROM metrics
		WHERE metric_name = $1
		ORDER BY id
	`, name)
}

// FindMetricsByTimestampRange returns metrics with from <= ts <= to, oldest
// first. Both bounds are inclusive.
func (p *PostgresStore) FindMetricsByTimestampRange(ctx context.Context, from, to time.Time) ([]models.Metric, error) {
	return p.queryMetrics(ctx, `
		SELECT id, metric_name, metric_value, ts, unit, created_at
		FROM metrics
		WHERE ts >= $1 AND ts <= $2
		ORDER BY id
	`, from, to)
}

func (p *PostgresStore) queryEvents(ctx context.Context, sql string, args ...any) ([]models.Event, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var ev models.Event
		if err := rows.Scan(&ev.ID, &ev.EventName, &ev.Timestamp, &ev.CreatedAt); err != nil {
			return nil, err
		}
		ev.Properties = map[string]*string{}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := p.loadProperties(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

// loadProperties fills the property maps of the given events in one query.
func (p *PostgresStore) loadProperties(ctx context.Context, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(events))
	byID := make(map[int64]*models.Event, len(events))
	for i := range events {
		ids = append(ids, events[i].ID)
		byID[events[i].ID] = &events[i]
	}

	rows, err := p.pool.Query(ctx, `
		SELECT event_id, property_key, property_value
		FROM event_properties
		WHERE event_id = ANY($1)
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    int64
			key   string
			value *string
		)
		if err := rows.Scan(&id, &key, &value); err != nil {
			return err
		}
		if ev, ok := byID[id]; ok {
			ev.Properties[key] = value
		}
	}
	return rows.Err()
}

func (p *PostgresStore) queryMetrics(ctx context.Context, sql string, args ...any) ([]models.Metric, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metrics []models.Metric
	for rows.Next() {
		var m models.Metric
		if err := rows.Scan(&m.ID, &m.MetricName, &m.Value, &m.Timestamp, &m.Unit, &m.CreatedAt); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}
