package engine

import (
	"sort"

	"github.com/farewatch/fare-analytics/internal/models"
)

// Aggregate combines every route's statistics record into a cross-route
// summary. Callers must exclude routes without a record (nil) upstream; nil
// entries here are skipped. An input with no qualifying routes
// yields the zero-valued Summary, never an error.
func Aggregate(routes map[string]*models.RouteStatistics) models.Summary {
	ids := make([]string, 0, len(routes))
	for id, stats := range routes {
		if stats == nil {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return models.Summary{}
	}
	sort.Strings(ids)

	// The overall figures use the flattened {min, max, avg} multiset per
	// route, not a recomputation from raw observations.
	allPrices := make([]float64, 0, len(ids)*3)
	rankings := make([]models.RouteRanking, 0, len(ids))
	for _, id := range ids {
		stats := routes[id]
		allPrices = append(allPrices, stats.MinPrice, stats.MaxPrice, stats.AvgPrice)
		rankings = append(rankings, models.RouteRanking{
			Route:              id,
			AvgPrice:           stats.AvgPrice,
			DemandScore:        stats.DemandScore,
			PriceVolatilityPct: stats.PriceVolatilityPct,
		})
	}

	byDemand := append([]models.RouteRanking(nil), rankings...)
	sort.SliceStable(byDemand, func(i, j int) bool {
		return byDemand[i].DemandScore > byDemand[j].DemandScore
	})

	byPriceDesc := append([]models.RouteRanking(nil), rankings...)
	sort.SliceStable(byPriceDesc, func(i, j int) bool {
		return byPriceDesc[i].AvgPrice > byPriceDesc[j].AvgPrice
	})

	byPriceAsc := append([]models.RouteRanking(nil), rankings...)
	sort.SliceStable(byPriceAsc, func(i, j int) bool {
		return byPriceAsc[i].AvgPrice < byPriceAsc[j].AvgPrice
	})

	return models.Summary{
		TotalRoutes:       len(ids),
		OverallAvgPrice:   mean(allPrices),
		OverallPriceRange: models.PriceRange{Min: minOf(allPrices), Max: maxOf(allPrices)},
		// With six or fewer routes the high and low lists may overlap;
		// they are intentionally not deduplicated.
		HighDemandRoutes:    routeIDs(topN(byDemand, 3)),
		LowDemandRoutes:     routeIDs(bottomN(byDemand, 3)),
		MostExpensiveRoutes: topN(byPriceDesc, 3),
		CheapestRoutes:      topN(byPriceAsc, 3),
	}
}

func topN(rankings []models.RouteRanking, n int) []models.RouteRanking {
	if len(rankings) < n {
		n = len(rankings)
	}
	return append([]models.RouteRanking(nil), rankings[:n]...)
}

// bottomN keeps the tail of a descending sort, preserving its order.
func bottomN(rankings []models.RouteRanking, n int) []models.RouteRanking {
	if len(rankings) < n {
		n = len(rankings)
	}
	return append([]models.RouteRanking(nil), rankings[len(rankings)-n:]...)
}

func routeIDs(rankings []models.RouteRanking) []string {
	ids := make([]string, 0, len(rankings))
	for _, r := range rankings {
		ids = append(ids, r.Route)
	}
	return ids
}

func minOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
