package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farewatch/fare-analytics/internal/metrics"
	"github.com/farewatch/fare-analytics/internal/models"
	"github.com/farewatch/fare-analytics/internal/narrative"
	"github.com/farewatch/fare-analytics/internal/services"
)

type stubSource struct {
	observations map[string][]models.FareObservation
}

func (s *stubSource) FetchRouteFares(_ context.Context, routes []string, daysAhead int) (map[string][]models.FareObservation, error) {
	return s.observations, nil
}

func testObservations() map[string][]models.FareObservation {
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	obs := func(offset int, price float64) models.FareObservation {
		return models.FareObservation{Date: day.AddDate(0, 0, offset), Price: price, Airline: "Qantas"}
	}
	return map[string][]models.FareObservation{
		"SYD-MEL": {obs(0, 120), obs(1, 135), obs(2, 110), obs(3, 128)},
		"SYD-BNE": {obs(0, 95), obs(1, 99), obs(2, 92)},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	analyzer := narrative.NewAnalyzer("http://example.invalid", "", "gpt-3.5-turbo", time.Second, nil)
	service := services.NewAnalyticsService(nil, nil, &stubSource{observations: testObservations()}, analyzer, services.Options{MaxDaysAhead: 30})

	registry := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(registry))
	return NewServer(nil, service, registry, ":0", 5*time.Second, 5*time.Second)
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	var payload map[string]any
	if strings.HasPrefix(recorder.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	}
	return recorder, payload
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t)
	recorder, _ := doJSON(t, server.Handler(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "ok", recorder.Body.String())
}

func TestFetchDataEndpoint(t *testing.T) {
	server := newTestServer(t)
	recorder, payload := doJSON(t, server.Handler(), http.MethodPost, "/api/fetch-data",
		`{"source":"mock","routes":["SYD-MEL","SYD-BNE"],"days_ahead":14}`)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "Successfully fetched data for 2 routes", payload["message"])

	data, ok := payload["data"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, data["analysis_id"])
	assert.Equal(t, "mock", data["source"])

	routes, ok := data["routes"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, routes, "SYD-MEL")
	stats := routes["SYD-MEL"].(map[string]any)
	assert.Contains(t, stats, "avg_price")
	assert.Contains(t, stats, "demand_score")
	assert.Contains(t, stats, "best_booking_window")
}

func TestFetchDataDefaultsWithEmptyBody(t *testing.T) {
	server := newTestServer(t)
	recorder, payload := doJSON(t, server.Handler(), http.MethodPost, "/api/fetch-data", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, true, payload["success"])
}

func TestFetchDataRejectsUnknownSource(t *testing.T) {
	server := newTestServer(t)
	recorder, payload := doJSON(t, server.Handler(), http.MethodPost, "/api/fetch-data",
		`{"source":"skyscanner"}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, false, payload["success"])
	assert.Contains(t, payload["error"], "skyscanner")
}

func TestFetchDataMethodNotAllowed(t *testing.T) {
	server := newTestServer(t)
	recorder, _ := doJSON(t, server.Handler(), http.MethodGet, "/api/fetch-data", "")
	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}

func TestAnalyzeEndpoint(t *testing.T) {
	server := newTestServer(t)
	recorder, payload := doJSON(t, server.Handler(), http.MethodPost, "/api/analyze",
		`{"type":"trends","source":"mock"}`)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, true, payload["success"])

	insights, ok := payload["insights"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "trends", insights["analysis_type"])
	assert.Equal(t, "fallback", insights["source"])
	assert.NotEmpty(t, insights["commentary"])
}

func TestChartsEndpoint(t *testing.T) {
	server := newTestServer(t)
	recorder, payload := doJSON(t, server.Handler(), http.MethodPost, "/api/charts",
		`{"source":"mock"}`)

	require.Equal(t, http.StatusOK, recorder.Code)
	charts, ok := payload["charts"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, charts, "price_trends")
	assert.Contains(t, charts, "demand_heatmap")
}

func TestRoutesEndpoint(t *testing.T) {
	server := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/routes", nil)
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	var catalog []map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &catalog))
	require.Len(t, catalog, 12)
	assert.Equal(t, "SYD-MEL", catalog[0]["code"])
}

func TestAirportInfoEndpoint(t *testing.T) {
	server := newTestServer(t)
	recorder, payload := doJSON(t, server.Handler(), http.MethodPost, "/api/airport-info",
		`{"iata_code":"SYD"}`)

	require.Equal(t, http.StatusOK, recorder.Code)
	airport := payload["airport"].(map[string]any)
	assert.Equal(t, "Sydney Airport", airport["airport_name"])

	recorder, _ = doJSON(t, server.Handler(), http.MethodPost, "/api/airport-info", `{}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAirlineInfoEndpoint(t *testing.T) {
	server := newTestServer(t)
	recorder, payload := doJSON(t, server.Handler(), http.MethodPost, "/api/airline-info",
		`{"iata_code":"QF"}`)

	require.Equal(t, http.StatusOK, recorder.Code)
	airline := payload["airline"].(map[string]any)
	assert.Equal(t, "Qantas Airways", airline["airline_name"])
}

func TestMetricsEndpoint(t *testing.T) {
	server := newTestServer(t)

	// Drive one analysis through so counters exist.
	recorder, _ := doJSON(t, server.Handler(), http.MethodPost, "/api/fetch-data", `{"source":"mock"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	recorder = httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "fare_analytics_analyses_total")
}

func TestCORSPreflight(t *testing.T) {
	server := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/fetch-data", nil)
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
}
