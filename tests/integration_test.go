package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

////////////////////////////////////////////////////////////////////////////////
// INTEGRATION TEST SUITE
//
// These tests validate the service end-to-end:
//
//   Client → HTTP API → Auth → Ingestion → Postgres → Response
//
// The service must already be running (for example via docker compose).
// Set BASE_URL to enable this suite; it is skipped otherwise.
//
// Environment:
//
//   BASE_URL  e.g. http://localhost:8080 (required to run)
//   API_KEY   default default-api-key-change-in-production
//
////////////////////////////////////////////////////////////////////////////////

func baseURL(t *testing.T) string {
	v := os.Getenv("BASE_URL")
	if v == "" {
		t.Skip("BASE_URL not set; skipping integration tests")
	}
	return v
}

func apiKey() string {
	if v := os.Getenv("API_KEY"); v != "" {
		return v
	}
	return "default-api-key-change-in-production"
}

// unique generates a unique string so tests never collide with previous runs.
func unique(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// waitReady polls /ready until DB + server are ready.
// Prevents flaky failures when containers are still booting.
func waitReady(t *testing.T) {
	t.Helper()

	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(30 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL(t) + "/ready")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(300 * time.Millisecond)
	}

	t.Fatalf("service not ready after 30s")
}

// postJSON performs a POST with JSON body and optional API key.
func postJSON(t *testing.T, key, path string, payload any) (int, []byte) {
	t.Helper()

	b, _ := json.Marshal(payload)

	req, _ := http.NewRequest("POST", baseURL(t)+path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}

	resp, err := (&http.Client{Timeout: 5 * time.Second}).Do(req)
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	defer resp.Body.Close()

	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

// parseStatus extracts the status/message fields from a response body.
func parseStatus(t *testing.T, b []byte) (string, string) {
	t.Helper()

	var r struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b, &r); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	return r.Status, r.Message
}

////////////////////////////////////////////////////////////////////////////////
// HEALTH & READINESS TESTS
////////////////////////////////////////////////////////////////////////////////

func TestHealth_ReturnsOK(t *testing.T) {
	resp, err := http.Get(baseURL(t) + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health expected 200 got %d", resp.StatusCode)
	}
}

func TestReady_ReturnsOK(t *testing.T) {
	waitReady(t)
}

////////////////////////////////////////////////////////////////////////////////
// INGESTION CONTRACT TESTS
////////////////////////////////////////////////////////////////////////////////

// Request without API key must be rejected with the documented body.
func TestEvents_UnauthorizedWithoutAPIKey(t *testing.T) {
	waitReady(t)

	payload := map[string]any{
		"eventName": unique("login"),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	s, b := postJSON(t, "", "/api/v1/ingest/events", payload)
	if s != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d (%s)", s, b)
	}
}

// Missing timestamp must return 400 with status "error".
func TestEvents_BadRequestOnMissingTimestamp(t *testing.T) {
	waitReady(t)

	payload := map[string]any{"eventName": unique("login")}
	s, b := postJSON(t, apiKey(), "/api/v1/ingest/events", payload)

	if s != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", s)
	}
	if status, _ := parseStatus(t, b); status != "error" {
		t.Fatalf("expected status error got %q", status)
	}
}

// Happy path: mixed-type properties are accepted and acknowledged.
func TestEvents_IngestSucceeds(t *testing.T) {
	waitReady(t)

	payload := map[string]any{
		"eventName": unique("user.login"),
		"timestamp": "2024-01-01T00:00:00Z",
		"properties": map[string]any{
			"userId":  "123",
			"action":  "login",
			"attempt": 2,
			"mobile":  true,
		},
	}

	s, b := postJSON(t, apiKey(), "/api/v1/ingest/events", payload)
	if s != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", s, b)
	}

	status, msg := parseStatus(t, b)
	if status != "success" || msg != "Event ingested successfully" {
		t.Fatalf("unexpected body: %s", b)
	}
}

// Missing metricName must return 400 with status "error".
func TestMetrics_BadRequestOnMissingName(t *testing.T) {
	waitReady(t)

	payload := map[string]any{
		"value":     75.5,
		"timestamp": "2024-01-01T00:00:00Z",
	}

	s, b := postJSON(t, apiKey(), "/api/v1/ingest/metrics", payload)
	if s != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", s)
	}
	if status, _ := parseStatus(t, b); status != "error" {
		t.Fatalf("expected status error got %q", status)
	}
}

// Happy path: optional unit carried through, acknowledged with fixed message.
func TestMetrics_IngestSucceeds(t *testing.T) {
	waitReady(t)

	payload := map[string]any{
		"metricName": unique("cpu.usage"),
		"value":      75.5,
		"timestamp":  "2024-01-01T00:00:00Z",
		"unit":       "percent",
	}

	s, b := postJSON(t, apiKey(), "/api/v1/ingest/metrics", payload)
	if s != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", s, b)
	}

	status, msg := parseStatus(t, b)
	if status != "success" || msg != "Metric ingested successfully" {
		t.Fatalf("unexpected body: %s", b)
	}
}
