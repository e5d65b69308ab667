package repo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farewatch/fare-analytics/internal/cache"
)

func aviationFixture(airline, flightIATA, depScheduled, arrScheduled string) map[string]any {
	return map[string]any{
		"airline":   map[string]any{"name": airline},
		"flight":    map[string]any{"iata": flightIATA},
		"departure": map[string]any{"scheduled": depScheduled},
		"arrival":   map[string]any{"scheduled": arrScheduled},
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAviationstackFetchRouteFares(t *testing.T) {
	var requestedDates []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		requestedDates = append(requestedDates, q.Get("flight_date"))

		assert.Equal(t, "test-key", q.Get("access_key"))
		assert.Equal(t, "SYD", q.Get("dep_iata"))
		assert.Equal(t, "MEL", q.Get("arr_iata"))
		assert.Equal(t, "20", q.Get("limit"))

		json.NewEncoder(w).Encode(map[string]any{
			"data": []any{
				aviationFixture("Qantas", "QF401", "2025-03-03T06:00:00+00:00", "2025-03-03T07:25:00+00:00"),
				aviationFixture("", "JQ501", "", ""),
			},
		})
	}))
	defer server.Close()

	client := NewAviationstackClient(server.URL, "test-key", 5*time.Second, cache.NoopProvider{}, time.Minute, nil)
	client.now = fixedClock(time.Date(2025, 3, 3, 10, 30, 0, 0, time.UTC))

	fares, err := client.FetchRouteFares(context.Background(), []string{"SYD-MEL"}, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"2025-03-03", "2025-03-04"}, requestedDates)

	observations := fares["SYD-MEL"]
	require.Len(t, observations, 4)

	first := observations[0]
	assert.Equal(t, "Qantas", first.Airline)
	assert.Equal(t, "QF401", first.FlightNumber)
	assert.Equal(t, "06:00", first.DepartureTime)
	assert.Equal(t, "07:25", first.ArrivalTime)
	assert.Equal(t, "Direct", first.Stops)
	assert.True(t, first.HasValidPrice())
	assert.GreaterOrEqual(t, first.Price, 80.0)
	assert.LessOrEqual(t, first.Price, 250.0)

	// Missing airline name falls back to Unknown.
	assert.Equal(t, "Unknown", observations[1].Airline)
}

func TestAviationstackPricesDeterministic(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []any{
				aviationFixture("Qantas", "QF401", "", ""),
				aviationFixture("Jetstar", "JQ501", "", ""),
			},
		})
	}))
	defer server.Close()

	clock := fixedClock(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC))

	first := NewAviationstackClient(server.URL, "k", 5*time.Second, cache.NoopProvider{}, time.Minute, nil)
	first.now = clock
	second := NewAviationstackClient(server.URL, "k", 5*time.Second, cache.NoopProvider{}, time.Minute, nil)
	second.now = clock

	a, err := first.FetchRouteFares(context.Background(), []string{"SYD-MEL"}, 3)
	require.NoError(t, err)
	b, err := second.FetchRouteFares(context.Background(), []string{"SYD-MEL"}, 3)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestAviationstackDayCap(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))
	defer server.Close()

	client := NewAviationstackClient(server.URL, "k", 5*time.Second, cache.NoopProvider{}, time.Minute, nil)
	client.now = fixedClock(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC))

	_, err := client.FetchRouteFares(context.Background(), []string{"SYD-MEL"}, 30)
	require.NoError(t, err)
	assert.Equal(t, aviationstackDayCap, hits)
}

func TestAviationstackCacheReadThrough(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		json.NewEncoder(w).Encode(map[string]any{
			"data": []any{aviationFixture("Qantas", "QF401", "", "")},
		})
	}))
	defer server.Close()

	provider := cache.NewMemoryProvider(16)
	client := NewAviationstackClient(server.URL, "k", 5*time.Second, provider, time.Minute, nil)
	client.now = fixedClock(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC))

	first, err := client.FetchRouteFares(context.Background(), []string{"SYD-MEL"}, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, hits)

	second, err := client.FetchRouteFares(context.Background(), []string{"SYD-MEL"}, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, hits, "second fetch should be served from cache")
	assert.Equal(t, first, second)
}

func TestAviationstackErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewAviationstackClient(server.URL, "k", 5*time.Second, cache.NoopProvider{}, time.Minute, nil)
	_, err := client.FetchRouteFares(context.Background(), []string{"SYD-MEL"}, 1)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, SourceAviationstack, fetchErr.Source)
	assert.Equal(t, "SYD-MEL", fetchErr.Route)
	assert.Equal(t, http.StatusTooManyRequests, fetchErr.Status)
}

func TestAviationstackMissingAPIKey(t *testing.T) {
	client := NewAviationstackClient("http://example.invalid", "", 5*time.Second, cache.NoopProvider{}, time.Minute, nil)
	_, err := client.FetchRouteFares(context.Background(), []string{"SYD-MEL"}, 1)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Contains(t, fetchErr.Error(), "API key")
}

func TestAviationstackMalformedRoute(t *testing.T) {
	client := NewAviationstackClient("http://example.invalid", "k", 5*time.Second, cache.NoopProvider{}, time.Minute, nil)
	_, err := client.FetchRouteFares(context.Background(), []string{"SYDMEL"}, 1)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "SYDMEL", fetchErr.Route)
}
