package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/farewatch/fare-analytics/internal/cache"
	"github.com/farewatch/fare-analytics/internal/metrics"
	"github.com/farewatch/fare-analytics/internal/models"
	"github.com/farewatch/fare-analytics/internal/utils"
)

const (
	// SourceAviationstack identifies live fetches against the Aviationstack API.
	SourceAviationstack = "aviationstack"
	// SourceMock identifies synthetic data generation.
	SourceMock = "mock"

	// The free Aviationstack tier meters requests aggressively, so live
	// fetches never look further ahead than a week regardless of what the
	// caller asked for.
	aviationstackDayCap = 7

	flightsPerDay = 20

	priceFloor = 80
	priceSpan  = 171 // synthesized prices land in [80, 250]
)

// AviationstackClient fetches flight schedules from the Aviationstack REST
// API and turns them into fare observations. The flights endpoint carries no
// fares on the free tier, so prices are synthesized deterministically per
// route and day.
type AviationstackClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      cache.Provider
	cacheTTL   time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewAviationstackClient constructs a client against the configured
// Aviationstack instance. Responses are memoized in the given cache provider
// for cacheTTL; pass a NoopProvider to disable caching.
func NewAviationstackClient(baseURL, apiKey string, timeout time.Duration, provider cache.Provider, cacheTTL time.Duration, logger *slog.Logger) *AviationstackClient {
	if provider == nil {
		provider = cache.NoopProvider{}
	}
	return &AviationstackClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache:    provider,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

type aviationFlight struct {
	Airline struct {
		Name string `json:"name"`
	} `json:"airline"`
	Flight struct {
		IATA string `json:"iata"`
	} `json:"flight"`
	Departure struct {
		Scheduled string `json:"scheduled"`
	} `json:"departure"`
	Arrival struct {
		Scheduled string `json:"scheduled"`
	} `json:"arrival"`
}

// FetchRouteFares retrieves observations for each requested route over the
// coming daysAhead days. Failures come back as *FetchError; the caller
// decides whether to fall back to synthetic data.
func (c *AviationstackClient) FetchRouteFares(ctx context.Context, routes []string, daysAhead int) (map[string][]models.FareObservation, error) {
	if c == nil {
		return nil, &FetchError{Source: SourceAviationstack, Err: fmt.Errorf("client not initialised")}
	}
	if c.apiKey == "" {
		return nil, &FetchError{Source: SourceAviationstack, Err: fmt.Errorf("API key not configured")}
	}
	if daysAhead > aviationstackDayCap {
		daysAhead = aviationstackDayCap
	}
	if daysAhead < 1 {
		daysAhead = 1
	}

	out := make(map[string][]models.FareObservation, len(routes))
	for _, route := range routes {
		origin, destination, err := splitRoute(route)
		if err != nil {
			return nil, &FetchError{Source: SourceAviationstack, Route: route, Err: err}
		}

		key := fmt.Sprintf("fares:%s:%s:%d", SourceAviationstack, route, daysAhead)
		if cached, ok := c.cacheLookup(ctx, key); ok {
			out[route] = cached
			continue
		}

		observations, err := c.fetchRoute(ctx, route, origin, destination, daysAhead)
		if err != nil {
			return nil, err
		}
		c.cacheStore(ctx, key, observations)
		out[route] = observations
	}
	return out, nil
}

func (c *AviationstackClient) fetchRoute(ctx context.Context, route, origin, destination string, daysAhead int) ([]models.FareObservation, error) {
	start := utils.TruncateToDay(c.now())
	var observations []models.FareObservation

	for i := 0; i < daysAhead; i++ {
		day := start.AddDate(0, 0, i)

		query := url.Values{}
		query.Set("access_key", c.apiKey)
		query.Set("dep_iata", origin)
		query.Set("arr_iata", destination)
		query.Set("flight_date", utils.FormatDay(day))
		query.Set("limit", fmt.Sprintf("%d", flightsPerDay))

		var response struct {
			Data []aviationFlight `json:"data"`
		}
		if err := c.getJSON(ctx, c.flightsURL(query), route, &response); err != nil {
			return nil, err
		}

		rng := rand.New(rand.NewSource(priceSeed(route, day)))
		for _, flight := range response.Data {
			airline := flight.Airline.Name
			if airline == "" {
				airline = "Unknown"
			}
			observations = append(observations, models.FareObservation{
				Date:          day,
				Price:         float64(priceFloor + rng.Intn(priceSpan)),
				Airline:       airline,
				DepartureTime: scheduledClock(flight.Departure.Scheduled),
				ArrivalTime:   scheduledClock(flight.Arrival.Scheduled),
				FlightNumber:  flight.Flight.IATA,
				Duration:      "",
				Stops:         "Direct",
			})
		}
	}

	if c.logger != nil {
		c.logger.Debug("fetched live fares",
			"route", route,
			"days", daysAhead,
			"observations", len(observations))
	}
	return observations, nil
}

func (c *AviationstackClient) flightsURL(query url.Values) string {
	return c.baseURL + "/flights?" + query.Encode()
}

func (c *AviationstackClient) getJSON(ctx context.Context, endpoint, route string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &FetchError{Source: SourceAviationstack, Route: route, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Source: SourceAviationstack, Route: route, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &FetchError{
			Source: SourceAviationstack,
			Route:  route,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected status %s", resp.Status),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Source: SourceAviationstack, Route: route, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *AviationstackClient) cacheLookup(ctx context.Context, key string) ([]models.FareObservation, bool) {
	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		metrics.ObserveCache("miss")
		return nil, false
	}
	var observations []models.FareObservation
	if err := json.Unmarshal(raw, &observations); err != nil {
		metrics.ObserveCache("miss")
		return nil, false
	}
	metrics.ObserveCache("hit")
	return observations, true
}

func (c *AviationstackClient) cacheStore(ctx context.Context, key string, observations []models.FareObservation) {
	raw, err := json.Marshal(observations)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, raw, c.cacheTTL); err != nil && c.logger != nil {
		c.logger.Warn("cache store failed", "key", key, "error", err)
	}
}

// splitRoute parses "SYD-MEL" into its origin and destination IATA codes.
func splitRoute(route string) (string, string, error) {
	parts := strings.Split(route, "-")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed route %q, want ORIGIN-DEST", route)
	}
	return parts[0], parts[1], nil
}

// priceSeed derives a stable seed from the route and day so repeated fetches
// synthesize the same prices.
func priceSeed(route string, day time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(route))
	h.Write([]byte(utils.FormatDay(day)))
	return int64(h.Sum64())
}

// scheduledClock reduces an RFC 3339 schedule stamp to its HH:MM clock.
func scheduledClock(scheduled string) string {
	if scheduled == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, scheduled)
	if err != nil {
		// Aviationstack sometimes omits the zone suffix.
		t, err = time.Parse("2006-01-02T15:04:05", scheduled)
		if err != nil {
			return ""
		}
	}
	return t.Format("15:04")
}
