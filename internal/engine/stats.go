package engine

import (
	"math"
	"sort"

	"github.com/farewatch/fare-analytics/internal/models"
	"github.com/farewatch/fare-analytics/internal/utils"
)

// Slope thresholds for trend classification, in price units per observation
// index. Not normalised by price magnitude: routes quoted in larger currency
// units classify as moving sooner.
const (
	trendSlopeIncreasing = 5.0
	trendSlopeDecreasing = -5.0
)

// ComputeRouteAnalytics transforms one route's observation sequence into its
// statistics record. Observations whose price is not a finite number are
// dropped before any arithmetic. Returns nil when no valid priced
// observation remains; callers must exclude nil records from aggregation.
func ComputeRouteAnalytics(route string, observations []models.FareObservation) *models.RouteStatistics {
	valid := make([]models.FareObservation, 0, len(observations))
	for _, obs := range observations {
		if obs.HasValidPrice() {
			valid = append(valid, obs)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	prices := make([]float64, len(valid))
	for i, obs := range valid {
		prices[i] = obs.Price
	}

	minIdx, maxIdx := 0, 0
	for i, p := range prices {
		if p < prices[minIdx] {
			minIdx = i
		}
		if p > prices[maxIdx] {
			maxIdx = i
		}
	}

	avg := mean(prices)
	stdDev := sampleStdDev(prices, avg)
	volatility := 0.0
	if avg != 0 {
		volatility = stdDev / avg * 100
	}

	trend := priceTrend(prices)

	return &models.RouteStatistics{
		Route:              route,
		MinPrice:           prices[minIdx],
		MaxPrice:           prices[maxIdx],
		AvgPrice:           avg,
		MedianPrice:        median(prices),
		PriceStdDev:        stdDev,
		PriceVolatilityPct: volatility,
		TotalObservations:  len(valid),
		CheapestDate:       utils.FormatDay(valid[minIdx].Date),
		MostExpensiveDate:  utils.FormatDay(valid[maxIdx].Date),
		PriceTrend:         trend,
		DemandScore:        demandScore(valid, prices, avg, stdDev, trend),
		PopularAirlines:    popularAirlines(valid),
		BestBookingWindow:  bestBookingWindow(valid, prices, avg),
	}
}

// priceTrend fits a first-degree least-squares line over the prices in their
// original observation order and classifies the slope.
func priceTrend(prices []float64) models.PriceTrend {
	n := len(prices)
	if n < 2 {
		return models.TrendInsufficientData
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range prices {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	fn := float64(n)
	slope := (fn*sumXY - sumX*sumY) / (fn*sumXX - sumX*sumX)

	switch {
	case slope > trendSlopeIncreasing:
		return models.TrendIncreasing
	case slope < trendSlopeDecreasing:
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}

// popularAirlines counts airline labels and returns the top three by count,
// breaking ties by order of first appearance.
func popularAirlines(observations []models.FareObservation) []models.AirlineCount {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0
	for _, obs := range observations {
		if _, seen := counts[obs.Airline]; !seen {
			firstSeen[obs.Airline] = order
			order++
		}
		counts[obs.Airline]++
	}

	ranked := make([]models.AirlineCount, 0, len(counts))
	for airline, count := range counts {
		ranked = append(ranked, models.AirlineCount{Airline: airline, Count: count})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return firstSeen[ranked[i].Airline] < firstSeen[ranked[j].Airline]
	})

	if len(ranked) > 3 {
		ranked = ranked[:3]
	}
	return ranked
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev is the n-1 standard deviation; a single sample degrades to 0
// so volatility stays finite.
func sampleStdDev(values []float64, avg float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		d := v - avg
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
