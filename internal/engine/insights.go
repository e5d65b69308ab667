package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/farewatch/fare-analytics/internal/models"
)

const highDemandThreshold = 7.0

// DeriveInsights reduces the per-route records and summary into prioritized
// insight records. Empty candidate sets emit nothing; there are no
// placeholder "no findings" records. The summary parameter is accepted for
// interface completeness; every rule below derives from the route records.
func DeriveInsights(routes map[string]*models.RouteStatistics, _ models.Summary) []models.Insight {
	ids := make([]string, 0, len(routes))
	for id, stats := range routes {
		if stats == nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	insights := make([]models.Insight, 0, len(ids)+2)

	if len(ids) > 0 {
		minAvg := routes[ids[0]].AvgPrice
		maxAvg := minAvg
		for _, id := range ids[1:] {
			avg := routes[id].AvgPrice
			if avg < minAvg {
				minAvg = avg
			}
			if avg > maxAvg {
				maxAvg = avg
			}
		}
		insights = append(insights, models.Insight{
			Category: models.InsightPrice,
			Type:     "price_range",
			Message:  fmt.Sprintf("Average ticket prices range from $%.0f to $%.0f", minAvg, maxAvg),
			Priority: models.PriorityMedium,
		})
	}

	highDemand := make([]string, 0, len(ids))
	for _, id := range ids {
		if routes[id].DemandScore > highDemandThreshold {
			highDemand = append(highDemand, id)
		}
	}
	if len(highDemand) > 0 {
		insights = append(insights, models.Insight{
			Category: models.InsightDemand,
			Type:     "high_demand",
			Message:  fmt.Sprintf("High demand detected on routes: %s", strings.Join(highDemand, ", ")),
			Priority: models.PriorityHigh,
		})
	}

	for _, id := range ids {
		window := routes[id].BestBookingWindow
		insights = append(insights, models.Insight{
			Category: models.InsightBooking,
			Type:     "optimal_booking",
			Route:    id,
			Message:  fmt.Sprintf("Best booking window for %s: %d days ahead (avg: $%.0f)", id, window.DaysAhead, window.AvgPrice),
			Priority: models.PriorityMedium,
		})
	}

	// The route category is reserved; no rules emit into it yet.

	return insights
}
