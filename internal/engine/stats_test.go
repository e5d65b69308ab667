package engine

import (
	"math"
	"testing"
	"time"

	"github.com/farewatch/fare-analytics/internal/models"
)

// baseDay is a Monday, so weekday/weekend partitions are predictable.
var baseDay = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func obs(dayOffset int, price float64) models.FareObservation {
	return models.FareObservation{
		Date:    baseDay.AddDate(0, 0, dayOffset),
		Price:   price,
		Airline: "Qantas",
	}
}

func TestComputeRouteAnalyticsFlatPrices(t *testing.T) {
	observations := []models.FareObservation{
		obs(0, 100), obs(1, 100), obs(1, 100), obs(2, 100),
	}

	stats := ComputeRouteAnalytics("SYD-MEL", observations)
	if stats == nil {
		t.Fatalf("expected statistics record")
	}
	if stats.PriceTrend != models.TrendStable {
		t.Fatalf("expected stable trend, got %s", stats.PriceTrend)
	}
	if stats.PriceVolatilityPct != 0 {
		t.Fatalf("expected zero volatility, got %f", stats.PriceVolatilityPct)
	}
	if stats.MinPrice != 100 || stats.MaxPrice != 100 || stats.AvgPrice != 100 || stats.MedianPrice != 100 {
		t.Fatalf("unexpected scalar stats: %+v", stats)
	}
	// Volatility contributes nothing; the score comes from the weekend and
	// trend components alone (all-weekday set saturates the premium clamp).
	want := 0*0.4 + 10*0.3 + 5*0.3
	if stats.DemandScore != want {
		t.Fatalf("expected demand score %.1f, got %f", want, stats.DemandScore)
	}
}

func TestComputeRouteAnalyticsIncreasingTrend(t *testing.T) {
	observations := make([]models.FareObservation, 0, 10)
	for i := 0; i < 10; i++ {
		observations = append(observations, obs(i, 100+float64(i)*20))
	}

	stats := ComputeRouteAnalytics("SYD-MEL", observations)
	if stats == nil {
		t.Fatalf("expected statistics record")
	}
	if stats.PriceTrend != models.TrendIncreasing {
		t.Fatalf("expected increasing trend, got %s", stats.PriceTrend)
	}
}

func TestComputeRouteAnalyticsDecreasingTrend(t *testing.T) {
	observations := make([]models.FareObservation, 0, 10)
	for i := 0; i < 10; i++ {
		observations = append(observations, obs(i, 300-float64(i)*20))
	}

	stats := ComputeRouteAnalytics("SYD-MEL", observations)
	if stats == nil || stats.PriceTrend != models.TrendDecreasing {
		t.Fatalf("expected decreasing trend, got %+v", stats)
	}
}

func TestComputeRouteAnalyticsSingleObservation(t *testing.T) {
	stats := ComputeRouteAnalytics("SYD-MEL", []models.FareObservation{obs(0, 150)})
	if stats == nil {
		t.Fatalf("expected statistics record for single observation")
	}
	if stats.PriceTrend != models.TrendInsufficientData {
		t.Fatalf("expected insufficient_data trend, got %s", stats.PriceTrend)
	}
	if stats.DemandScore != 5.0 {
		t.Fatalf("expected default demand score 5.0, got %f", stats.DemandScore)
	}
	if stats.BestBookingWindow.DaysAhead != 7 || stats.BestBookingWindow.AvgPrice != 150 {
		t.Fatalf("expected default booking window {7, 150}, got %+v", stats.BestBookingWindow)
	}
	if stats.PriceVolatilityPct != 0 {
		t.Fatalf("expected finite zero volatility, got %f", stats.PriceVolatilityPct)
	}
}

func TestComputeRouteAnalyticsDropsInvalidPrices(t *testing.T) {
	observations := []models.FareObservation{
		obs(0, 100),
		{Date: baseDay.AddDate(0, 0, 1), Price: math.NaN(), Airline: "Jetstar"},
		{Date: baseDay.AddDate(0, 0, 2), Price: math.Inf(1), Airline: "Rex"},
		obs(3, 120),
	}

	stats := ComputeRouteAnalytics("SYD-MEL", observations)
	if stats == nil {
		t.Fatalf("expected statistics record")
	}
	if stats.TotalObservations != 2 {
		t.Fatalf("expected 2 valid observations, got %d", stats.TotalObservations)
	}
	if stats.MinPrice != 100 || stats.MaxPrice != 120 {
		t.Fatalf("invalid rows leaked into min/max: %+v", stats)
	}
}

func TestComputeRouteAnalyticsAllInvalid(t *testing.T) {
	observations := []models.FareObservation{
		{Date: baseDay, Price: math.NaN()},
		{Date: baseDay.AddDate(0, 0, 1), Price: math.Inf(-1)},
	}
	if stats := ComputeRouteAnalytics("SYD-MEL", observations); stats != nil {
		t.Fatalf("expected nil record for all-invalid set, got %+v", stats)
	}
}

func TestComputeRouteAnalyticsScalarOrdering(t *testing.T) {
	observations := []models.FareObservation{
		obs(0, 180), obs(1, 90), obs(2, 130), obs(3, 110), obs(4, 90),
	}

	stats := ComputeRouteAnalytics("SYD-MEL", observations)
	if stats == nil {
		t.Fatalf("expected statistics record")
	}
	if stats.MinPrice > stats.AvgPrice || stats.AvgPrice > stats.MaxPrice {
		t.Fatalf("min <= avg <= max violated: %+v", stats)
	}
	if stats.MinPrice > stats.MedianPrice || stats.MedianPrice > stats.MaxPrice {
		t.Fatalf("min <= median <= max violated: %+v", stats)
	}
	if stats.PriceVolatilityPct < 0 || math.IsInf(stats.PriceVolatilityPct, 0) || math.IsNaN(stats.PriceVolatilityPct) {
		t.Fatalf("volatility not finite and non-negative: %f", stats.PriceVolatilityPct)
	}
	// Ties on the minimum resolve to the first occurrence.
	if stats.CheapestDate != "2025-03-04" {
		t.Fatalf("expected first min occurrence date, got %s", stats.CheapestDate)
	}
	if stats.MostExpensiveDate != "2025-03-03" {
		t.Fatalf("expected max occurrence date, got %s", stats.MostExpensiveDate)
	}
}

func TestComputeRouteAnalyticsZeroAvgVolatilityGuard(t *testing.T) {
	observations := []models.FareObservation{obs(0, 0), obs(1, 0), obs(2, 0)}

	stats := ComputeRouteAnalytics("SYD-MEL", observations)
	if stats == nil {
		t.Fatalf("expected statistics record")
	}
	if stats.PriceVolatilityPct != 0 {
		t.Fatalf("expected guarded volatility 0 for zero mean, got %f", stats.PriceVolatilityPct)
	}
}

func TestPriceTrendDeterminism(t *testing.T) {
	prices := []float64{120, 135, 110, 125, 140, 115}
	first := priceTrend(prices)
	for i := 0; i < 5; i++ {
		if got := priceTrend(prices); got != first {
			t.Fatalf("trend not deterministic: %s vs %s", got, first)
		}
	}
}

func TestPopularAirlinesRanking(t *testing.T) {
	observations := []models.FareObservation{
		{Date: baseDay, Price: 100, Airline: "Jetstar"},
		{Date: baseDay, Price: 100, Airline: "Qantas"},
		{Date: baseDay, Price: 100, Airline: "Qantas"},
		{Date: baseDay, Price: 100, Airline: "Virgin Australia"},
		{Date: baseDay, Price: 100, Airline: "Rex"},
		{Date: baseDay, Price: 100, Airline: "Rex"},
	}

	ranked := popularAirlines(observations)
	if len(ranked) != 3 {
		t.Fatalf("expected top 3, got %d", len(ranked))
	}
	if ranked[0].Airline != "Qantas" || ranked[0].Count != 2 {
		t.Fatalf("unexpected leader: %+v", ranked[0])
	}
	// Qantas and Rex tie on count; Qantas appeared first. Jetstar and
	// Virgin tie at one; Jetstar appeared first and takes the last slot.
	if ranked[1].Airline != "Rex" {
		t.Fatalf("tie not broken by first appearance: %+v", ranked[1])
	}
	if ranked[2].Airline != "Jetstar" {
		t.Fatalf("unexpected third place: %+v", ranked[2])
	}
}
