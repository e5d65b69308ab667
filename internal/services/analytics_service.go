package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/farewatch/fare-analytics/internal/engine"
	"github.com/farewatch/fare-analytics/internal/metrics"
	"github.com/farewatch/fare-analytics/internal/models"
	"github.com/farewatch/fare-analytics/internal/repo"
	"github.com/farewatch/fare-analytics/internal/utils"
)

// Default request shape when the caller leaves fields empty.
var defaultRoutes = []string{"SYD-MEL", "SYD-BNE", "MEL-BNE"}

const defaultDaysAhead = 30

// FareSource supplies fare observations for a set of routes. Both the live
// Aviationstack client and the synthetic generator satisfy it.
type FareSource interface {
	FetchRouteFares(ctx context.Context, routes []string, daysAhead int) (map[string][]models.FareObservation, error)
}

// NarrativeAnalyzer produces prose commentary from an analysis result.
type NarrativeAnalyzer interface {
	Analyze(ctx context.Context, result *models.AnalysisResult, analysisType string) models.Narrative
}

// Options tune request defaulting and fallback behavior.
type Options struct {
	// DefaultSource is used when a request names no source. Empty means mock.
	DefaultSource string
	// FallbackToMock substitutes synthetic data when the live source fails.
	FallbackToMock bool
	// MaxDaysAhead caps the request horizon.
	MaxDaysAhead int
}

// AnalyticsService orchestrates the full pipeline: acquire observations,
// compute per-route statistics, aggregate, derive insights and chart series.
type AnalyticsService struct {
	logger    *slog.Logger
	live      FareSource
	mock      FareSource
	analyzer  NarrativeAnalyzer
	opts      Options
	latencies *utils.LatencyTracker
	now       func() time.Time
	newID     func() string
}

// NewAnalyticsService constructs the service facade. The live source may be
// nil when the deployment is mock-only; the mock source must not be.
func NewAnalyticsService(logger *slog.Logger, live, mock FareSource, analyzer NarrativeAnalyzer, opts Options) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.DefaultSource == "" {
		opts.DefaultSource = repo.SourceMock
	}
	if opts.MaxDaysAhead <= 0 {
		opts.MaxDaysAhead = defaultDaysAhead
	}
	return &AnalyticsService{
		logger:    logger,
		live:      live,
		mock:      mock,
		analyzer:  analyzer,
		opts:      opts,
		latencies: utils.NewLatencyTracker(1024),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// normalize fills request defaults and validates the source name.
func (s *AnalyticsService) normalize(req models.AnalysisRequest) (models.AnalysisRequest, error) {
	if req.Source == "" {
		req.Source = s.opts.DefaultSource
	}
	switch req.Source {
	case repo.SourceMock, repo.SourceAviationstack:
	default:
		return req, utils.NewAppError("analytics.normalize", fmt.Sprintf("unknown source %q", req.Source), nil)
	}
	if len(req.Routes) == 0 {
		req.Routes = append([]string(nil), defaultRoutes...)
	}
	if req.DaysAhead <= 0 {
		req.DaysAhead = defaultDaysAhead
	}
	if req.DaysAhead > s.opts.MaxDaysAhead {
		req.DaysAhead = s.opts.MaxDaysAhead
	}
	return req, nil
}

// FetchData acquires observations for the requested routes. When the live
// source fails and fallback is enabled, it substitutes synthetic data and
// reports the source actually used.
func (s *AnalyticsService) FetchData(ctx context.Context, req models.AnalysisRequest) (map[string][]models.FareObservation, string, error) {
	req, err := s.normalize(req)
	if err != nil {
		return nil, "", err
	}

	source := req.Source
	var observations map[string][]models.FareObservation

	switch source {
	case repo.SourceAviationstack:
		if s.live == nil {
			return nil, "", utils.NewAppError("analytics.fetch", "live source not configured", nil)
		}
		observations, err = s.live.FetchRouteFares(ctx, req.Routes, req.DaysAhead)
		if err != nil {
			var fetchErr *repo.FetchError
			if s.opts.FallbackToMock && errors.As(err, &fetchErr) {
				s.logger.Warn("live fetch failed, substituting synthetic data",
					"route", fetchErr.Route,
					"error", err)
				source = repo.SourceMock
				observations, err = s.mock.FetchRouteFares(ctx, req.Routes, req.DaysAhead)
			}
			if err != nil {
				return nil, "", utils.NewAppError("analytics.fetch", "acquisition failed", err)
			}
		}
	default:
		observations, err = s.mock.FetchRouteFares(ctx, req.Routes, req.DaysAhead)
		if err != nil {
			return nil, "", utils.NewAppError("analytics.fetch", "mock generation failed", err)
		}
	}

	total := 0
	for _, obs := range observations {
		total += len(obs)
	}
	metrics.ObserveFetch(source, total)
	s.logger.Info("fetched fare data",
		"source", source,
		"routes", len(observations),
		"observations", total)
	return observations, source, nil
}

// Analyze runs the full pipeline for one request.
func (s *AnalyticsService) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
	start := s.now()

	observations, source, err := s.FetchData(ctx, req)
	if err != nil {
		metrics.ObserveAnalysis(time.Since(start), metrics.OutcomeError)
		return nil, err
	}

	routes := make(map[string]*models.RouteStatistics, len(observations))
	for route, obs := range observations {
		stats := engine.ComputeRouteAnalytics(route, obs)
		if stats == nil {
			s.logger.Warn("no valid observations for route", "route", route)
			continue
		}
		routes[route] = stats
	}

	summary := engine.Aggregate(routes)
	result := &models.AnalysisResult{
		AnalysisID:   s.newID(),
		Source:       source,
		Observations: observations,
		Routes:       routes,
		Summary:      summary,
		Insights:     engine.DeriveInsights(routes, summary),
		Charts:       engine.BuildChartSeries(observations, routes),
		CreatedAt:    s.now(),
	}

	duration := time.Since(start)
	s.latencies.Observe(duration)
	metrics.ObserveAnalysis(duration, metrics.OutcomeSuccess)
	if count := s.latencies.Count(); count >= 20 && count%20 == 0 {
		s.logger.Info("analysis latency",
			slog.Duration("p95", s.latencies.Percentile(95)),
			slog.Int("samples", count))
	}
	s.logger.Info("analysis complete",
		"analysis_id", result.AnalysisID,
		"source", source,
		"routes", len(routes),
		"insights", len(result.Insights))
	return result, nil
}

// Narrate produces commentary for a completed analysis. Without a configured
// analyzer it returns an error rather than a silent empty narrative.
func (s *AnalyticsService) Narrate(ctx context.Context, result *models.AnalysisResult, analysisType string) (models.Narrative, error) {
	if s.analyzer == nil {
		return models.Narrative{}, utils.NewAppError("analytics.narrate", "narrative analyzer not configured", nil)
	}
	if result == nil {
		return models.Narrative{}, utils.NewAppError("analytics.narrate", "analysis result cannot be nil", nil)
	}
	return s.analyzer.Analyze(ctx, result, analysisType), nil
}

// Charts recomputes chart series for a request without retaining the rest of
// the pipeline output.
func (s *AnalyticsService) Charts(ctx context.Context, req models.AnalysisRequest) (models.ChartBundle, error) {
	result, err := s.Analyze(ctx, req)
	if err != nil {
		return models.ChartBundle{}, err
	}
	return result.Charts, nil
}
