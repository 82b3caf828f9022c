package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ehrlabs/analytics-ingestion/internal/ingest"
	"github.com/ehrlabs/analytics-ingestion/internal/models"
)

// RegisterMetricRoutes registers the metric ingestion endpoint.
//
// POST /ingest/metrics
// - Requires X-API-Key (enforced by the surrounding group)
// - unit is optional and stored as NULL when omitted
func RegisterMetricRoutes(r gin.IRoutes, svc *ingest.Service) {
	r.POST("/ingest/metrics", func(c *gin.Context) {
		var req models.MetricIngestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body: metricName, value and timestamp are required")
			return
		}

		if strings.TrimSpace(req.MetricName) == "" {
			badRequest(c, "metricName must not be blank")
			return
		}

		ts, err := parseRFC3339(req.Timestamp)
		if err != nil {
			badRequest(c, "timestamp must be RFC3339")
			return
		}

		if err := svc.IngestMetric(c.Request.Context(), req, ts); err != nil {
			c.JSON(http.StatusInternalServerError, models.IngestResponse{
				Status:  "error",
				Message: "failed to ingest metric",
			})
			return
		}

		c.JSON(http.StatusOK, models.IngestResponse{
			Status:  "success",
			Message: "Metric ingested successfully",
		})
	})
}
