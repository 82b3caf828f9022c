package main

import (
	"log"

	"github.com/ehrlabs/analytics-ingestion/internal/config"
	"github.com/ehrlabs/analytics-ingestion/internal/httpserver"
	"github.com/ehrlabs/analytics-ingestion/internal/ingest"
	"github.com/ehrlabs/analytics-ingestion/internal/payloadlog"
	"github.com/ehrlabs/analytics-ingestion/internal/store"
)

// main boots the service: config → DB → schema → pipeline → HTTP server.
func main() {
	// Load runtime config from environment (DB_URL, API_KEY, payload log knobs).
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Connect to durable storage (Postgres) using a connection pool.
	db, err := store.NewPostgresStore(cfg.DBURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Ensure required tables/indexes exist so `docker compose up --build` is enough.
	if err := db.EnsureSchema(); err != nil {
		log.Fatal(err)
	}

	// The payload log is owned here and handed to the pipeline; it is a
	// debug aid holding the most recent ingested payloads in memory.
	payloads := payloadlog.New(cfg.PayloadLogEnabled, cfg.PayloadLogMaxSize)
	svc := ingest.New(db, payloads)

	// Build HTTP router (public health + authenticated APIs).
	router := httpserver.NewRouter(cfg, db, svc)

	log.Println("server started on :8080")
	log.Fatal(router.Run(":8080"))
}
