package engine

import (
	"math"

	"github.com/farewatch/fare-analytics/internal/models"
)

// Demand score weighting: volatility dominates, weekend premium and trend
// split the remainder.
const (
	demandWeightVolatility = 0.4
	demandWeightWeekend    = 0.3
	demandWeightTrend      = 0.3

	demandScoreDefault = 5.0
)

var trendSubScores = map[models.PriceTrend]float64{
	models.TrendIncreasing:       8,
	models.TrendDecreasing:       3,
	models.TrendStable:           5,
	models.TrendInsufficientData: 5,
}

// demandScore is the composite [0,10] pricing-pressure heuristic. Fewer than
// three valid observations return the fixed default. The final weighted sum
// is intentionally not clamped again; only the component sub-scores are.
func demandScore(observations []models.FareObservation, prices []float64, avg, stdDev float64, trend models.PriceTrend) float64 {
	if len(observations) < 3 {
		return demandScoreDefault
	}

	volatilityScore := 0.0
	if avg != 0 {
		volatilityScore = math.Min(10, stdDev/avg*50)
	}

	weekendScore := weekendPremiumScore(observations)

	trendScore, ok := trendSubScores[trend]
	if !ok {
		trendScore = demandScoreDefault
	}

	score := volatilityScore*demandWeightVolatility +
		weekendScore*demandWeightWeekend +
		trendScore*demandWeightTrend
	return roundTo1(score)
}

// weekendPremiumScore compares mean weekend fares against mean weekday
// fares. An empty weekday partition yields the fixed sub-score 5; an empty
// weekend partition saturates the clamp and yields 10.
func weekendPremiumScore(observations []models.FareObservation) float64 {
	var weekendSum, weekdaySum float64
	var weekendCount, weekdayCount int
	for _, obs := range observations {
		if obs.IsWeekend() {
			weekendSum += obs.Price
			weekendCount++
		} else {
			weekdaySum += obs.Price
			weekdayCount++
		}
	}

	if weekdayCount == 0 {
		return demandScoreDefault
	}
	weekdayMean := weekdaySum / float64(weekdayCount)
	if weekdayMean <= 0 {
		return demandScoreDefault
	}
	if weekendCount == 0 {
		return 10
	}

	weekendMean := weekendSum / float64(weekendCount)
	premium := (weekendMean - weekdayMean) / weekdayMean
	return math.Min(10, premium*20)
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
