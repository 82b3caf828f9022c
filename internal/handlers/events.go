package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ehrlabs/analytics-ingestion/internal/ingest"
	"github.com/ehrlabs/analytics-ingestion/internal/models"
)

// parseRFC3339 parses an RFC3339 timestamp and normalizes it to UTC.
func parseRFC3339(ts string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, models.IngestResponse{Status: "error", Message: msg})
}

// RegisterEventRoutes registers the event ingestion endpoint.
//
// POST /ingest/events
// - Requires X-API-Key (enforced by the surrounding group)
// - Returns success only after the DB write completes
func RegisterEventRoutes(r gin.IRoutes, svc *ingest.Service) {
	r.POST("/ingest/events", func(c *gin.Context) {
		var req models.EventIngestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body: eventName and timestamp are required")
			return
		}

		if strings.TrimSpace(req.EventName) == "" {
			badRequest(c, "eventName must not be blank")
			return
		}

		ts, err := parseRFC3339(req.Timestamp)
		if err != nil {
			badRequest(c, "timestamp must be RFC3339")
			return
		}

		if err := svc.IngestEvent(c.Request.Context(), req, ts); err != nil {
			c.JSON(http.StatusInternalServerError, models.IngestResponse{
				Status:  "error",
				Message: "failed to ingest event",
			})
			return
		}

		c.JSON(http.StatusOK, models.IngestResponse{
			Status:  "success",
			Message: "Event ingested successfully",
		})
	})
}
