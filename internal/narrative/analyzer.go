package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/farewatch/fare-analytics/internal/models"
)

// Analysis types accepted by the analyzer. Anything else falls back to a
// general market overview.
const (
	TypeTrends  = "trends"
	TypePricing = "pricing"
	TypeDemand  = "demand"
	TypeGeneral = "general"

	chatCompletionsPath = "/v1/chat/completions"
	maxTokens           = 500
	temperature         = 0.7

	systemPrompt = "You are an expert airline industry analyst. Provide clear, actionable insights based on the data provided."
)

// Analyzer turns an analysis result into prose commentary. With an API key
// configured it asks an OpenAI-compatible chat endpoint; without one, or when
// the call fails, it falls back to templated commentary derived from the
// computed statistics.
type Analyzer struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

// NewAnalyzer constructs an analyzer. An empty apiKey pins it to fallback
// commentary, which is always available.
func NewAnalyzer(endpoint, apiKey, model string, timeout time.Duration, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		model:    model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
		now:    time.Now,
	}
}

// Analyze produces a narrative for the given result. It never fails: AI
// errors degrade to the templated fallback and are logged, not surfaced.
func (a *Analyzer) Analyze(ctx context.Context, result *models.AnalysisResult, analysisType string) models.Narrative {
	switch analysisType {
	case TypeTrends, TypePricing, TypeDemand:
	default:
		analysisType = TypeGeneral
	}

	if a.apiKey != "" {
		narrative, err := a.analyzeWithAI(ctx, result, analysisType)
		if err == nil {
			return narrative
		}
		if a.logger != nil {
			a.logger.Warn("AI analysis failed, using fallback", "type", analysisType, "error", err)
		}
	}
	return a.analyzeWithFallback(result, analysisType)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (a *Analyzer) analyzeWithAI(ctx context.Context, result *models.AnalysisResult, analysisType string) (models.Narrative, error) {
	prompt, err := buildPrompt(result, analysisType)
	if err != nil {
		return models.Narrative{}, err
	}

	payload := chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	var response chatResponse
	if err := a.postJSON(ctx, a.endpoint+chatCompletionsPath, payload, &response); err != nil {
		return models.Narrative{}, err
	}
	if len(response.Choices) == 0 {
		return models.Narrative{}, fmt.Errorf("chat completion returned no choices")
	}

	content := response.Choices[0].Message.Content
	return models.Narrative{
		AnalysisType:    analysisType,
		Commentary:      []string{content},
		Recommendations: extractKeyPoints(content),
		Source:          models.NarrativeSourceAI,
		GeneratedAt:     a.now(),
	}, nil
}

func (a *Analyzer) postJSON(ctx context.Context, endpoint string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("chat endpoint returned %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// buildPrompt condenses the per-route statistics into a compact JSON summary
// and wraps it in the instruction set for the requested analysis type.
func buildPrompt(result *models.AnalysisResult, analysisType string) (string, error) {
	type routeDigest struct {
		AvgPrice      float64              `json:"avg_price"`
		DemandScore   float64              `json:"demand_score"`
		Volatility    float64              `json:"price_volatility"`
		PriceTrend    models.PriceTrend    `json:"price_trend"`
		BookingWindow models.BookingWindow `json:"best_booking_window"`
	}

	digest := struct {
		TotalRoutes int                    `json:"total_routes"`
		Routes      map[string]routeDigest `json:"route_statistics"`
		Summary     models.Summary         `json:"overall_summary"`
	}{
		TotalRoutes: len(result.Routes),
		Routes:      make(map[string]routeDigest, len(result.Routes)),
		Summary:     result.Summary,
	}
	for route, stats := range result.Routes {
		if stats == nil {
			continue
		}
		digest.Routes[route] = routeDigest{
			AvgPrice:      stats.AvgPrice,
			DemandScore:   stats.DemandScore,
			Volatility:    stats.PriceVolatilityPct,
			PriceTrend:    stats.PriceTrend,
			BookingWindow: stats.BestBookingWindow,
		}
	}

	raw, err := json.MarshalIndent(digest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal digest: %w", err)
	}

	var instructions string
	switch analysisType {
	case TypeTrends:
		instructions = "Analyze the following airline booking data and provide insights about market trends:\n\n%s\n\nCover key market trends, seasonal patterns, per-route price trends, recommendations for travelers, and predictions based on current patterns."
	case TypePricing:
		instructions = "Analyze the following airline pricing data and provide pricing insights:\n\n%s\n\nCover pricing patterns, price volatility, optimal booking timing, cross-route price comparison, and factors affecting pricing."
	case TypeDemand:
		instructions = "Analyze the following airline demand data and provide demand insights:\n\n%s\n\nCover demand patterns and drivers, high- versus low-demand routes, seasonal variation, and business opportunities."
	default:
		instructions = "Provide a comprehensive analysis of the following airline booking data:\n\n%s\n\nCover the overall market, key patterns, business implications, recommendations for stakeholders, and risk factors."
	}
	return fmt.Sprintf(instructions, string(raw)), nil
}

var keyPointMarkers = []string{"trend", "increase", "decrease", "recommend", "opportunity", "risk"}

// extractKeyPoints pulls up to five sentences that look like actionable
// statements out of free-form model output.
func extractKeyPoints(text string) []string {
	var points []string
	for _, sentence := range strings.Split(text, ". ") {
		lower := strings.ToLower(sentence)
		for _, marker := range keyPointMarkers {
			if strings.Contains(lower, marker) {
				points = append(points, strings.TrimSpace(sentence))
				break
			}
		}
		if len(points) == 5 {
			break
		}
	}
	return points
}

func (a *Analyzer) analyzeWithFallback(result *models.AnalysisResult, analysisType string) models.Narrative {
	var commentary []string
	switch analysisType {
	case TypeTrends:
		commentary = trendsCommentary(result)
	case TypePricing:
		commentary = pricingCommentary(result)
	case TypeDemand:
		commentary = demandCommentary(result)
	default:
		commentary = generalCommentary(result)
	}

	return models.Narrative{
		AnalysisType:    analysisType,
		Commentary:      commentary,
		Recommendations: buildRecommendations(result),
		Source:          models.NarrativeSourceFallback,
		GeneratedAt:     a.now(),
	}
}

func sortedRouteIDs(routes map[string]*models.RouteStatistics) []string {
	ids := make([]string, 0, len(routes))
	for id, stats := range routes {
		if stats == nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func trendsCommentary(result *models.AnalysisResult) []string {
	var lines []string
	for _, route := range sortedRouteIDs(result.Routes) {
		stats := result.Routes[route]
		switch stats.PriceTrend {
		case models.TrendIncreasing:
			lines = append(lines, fmt.Sprintf("%s: Prices are trending upward (avg: $%.0f)", route, stats.AvgPrice))
		case models.TrendDecreasing:
			lines = append(lines, fmt.Sprintf("%s: Prices are trending downward (avg: $%.0f)", route, stats.AvgPrice))
		default:
			lines = append(lines, fmt.Sprintf("%s: Prices are relatively stable (avg: $%.0f)", route, stats.AvgPrice))
		}
	}
	return lines
}

func pricingCommentary(result *models.AnalysisResult) []string {
	ids := sortedRouteIDs(result.Routes)
	if len(ids) == 0 {
		return nil
	}

	var sum, min, max float64
	for i, route := range ids {
		avg := result.Routes[route].AvgPrice
		sum += avg
		if i == 0 || avg < min {
			min = avg
		}
		if i == 0 || avg > max {
			max = avg
		}
	}

	lines := []string{
		fmt.Sprintf("Average ticket price across all routes: $%.0f", sum/float64(len(ids))),
		fmt.Sprintf("Price range: $%.0f - $%.0f", min, max),
	}
	if min > 0 {
		lines = append(lines, fmt.Sprintf("Price volatility: %.1fx difference between cheapest and most expensive routes", max/min))
	}
	return lines
}

func demandCommentary(result *models.AnalysisResult) []string {
	var high, low []string
	for _, route := range sortedRouteIDs(result.Routes) {
		score := result.Routes[route].DemandScore
		if score > 7 {
			high = append(high, route)
		} else if score < 4 {
			low = append(low, route)
		}
	}

	var lines []string
	if len(high) > 0 {
		lines = append(lines, fmt.Sprintf("High demand routes: %s", strings.Join(high, ", ")))
	}
	if len(low) > 0 {
		lines = append(lines, fmt.Sprintf("Low demand routes: %s", strings.Join(low, ", ")))
	}
	return lines
}

func generalCommentary(result *models.AnalysisResult) []string {
	lines := []string{
		fmt.Sprintf("Analyzed %d routes", len(sortedRouteIDs(result.Routes))),
		fmt.Sprintf("Overall average price: $%.0f", result.Summary.OverallAvgPrice),
	}
	if len(result.Summary.HighDemandRoutes) > 0 {
		lines = append(lines, fmt.Sprintf("High demand routes: %s", strings.Join(result.Summary.HighDemandRoutes, ", ")))
	}
	return lines
}

func buildRecommendations(result *models.AnalysisResult) []string {
	var recommendations []string
	for _, route := range sortedRouteIDs(result.Routes) {
		window := result.Routes[route].BestBookingWindow
		recommendations = append(recommendations, fmt.Sprintf(
			"Book %s %d days ahead for best prices (avg: $%.0f)",
			route, window.DaysAhead, window.AvgPrice))
		if len(recommendations) == 5 {
			return recommendations
		}
	}
	if len(result.Summary.HighDemandRoutes) > 0 {
		recommendations = append(recommendations, fmt.Sprintf(
			"Consider alternative routes to avoid high demand: %s",
			strings.Join(result.Summary.HighDemandRoutes, ", ")))
	}
	if len(recommendations) > 5 {
		recommendations = recommendations[:5]
	}
	return recommendations
}
