package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ehrlabs/analytics-ingestion/internal/auth"
	"github.com/ehrlabs/analytics-ingestion/internal/config"
	"github.com/ehrlabs/analytics-ingestion/internal/handlers"
	"github.com/ehrlabs/analytics-ingestion/internal/ingest"
)

// Pinger is the readiness dependency (DB connectivity check).
type Pinger interface {
	Ping(ctx context.Context) error
}

// requestID tags every request with an X-Request-ID for log correlation,
// generating one when the client did not supply it.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// NewRouter wires public endpoints and authenticated APIs.
// Public: /health, /ready
// Authenticated (X-API-Key): /api/v1/ingest/events, /api/v1/ingest/metrics
func NewRouter(cfg config.Config, db Pinger, svc *ingest.Service) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), requestID())

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the DB dependency is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	// All /api/v1 endpoints require the shared-secret header.
	api := r.Group("/api/v1")
	api.Use(auth.APIKeyMiddleware(cfg.APIKey))

	handlers.RegisterEventRoutes(api, svc)
	handlers.RegisterMetricRoutes(api, svc)

	return r
}
