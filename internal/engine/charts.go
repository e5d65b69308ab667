package engine

import (
	"sort"

	"github.com/farewatch/fare-analytics/internal/models"
	"github.com/farewatch/fare-analytics/internal/utils"
)

// BuildChartSeries produces the numeric structures the chart collaborators
// render: raw per-route fare series plus demand and price comparison
// vectors. Routes are ordered alphabetically so repeated builds over the
// same input are byte-identical.
func BuildChartSeries(observations map[string][]models.FareObservation, routes map[string]*models.RouteStatistics) models.ChartBundle {
	var bundle models.ChartBundle

	obsIDs := make([]string, 0, len(observations))
	for id := range observations {
		obsIDs = append(obsIDs, id)
	}
	sort.Strings(obsIDs)

	for _, id := range obsIDs {
		series := models.PriceSeries{Route: id}
		for _, obs := range observations[id] {
			if !obs.HasValidPrice() {
				continue
			}
			series.Dates = append(series.Dates, utils.FormatDay(obs.Date))
			series.Prices = append(series.Prices, obs.Price)
		}
		if len(series.Prices) > 0 {
			bundle.PriceTrends = append(bundle.PriceTrends, series)
		}
	}

	statIDs := make([]string, 0, len(routes))
	for id, stats := range routes {
		if stats == nil {
			continue
		}
		statIDs = append(statIDs, id)
	}
	sort.Strings(statIDs)

	for _, id := range statIDs {
		stats := routes[id]
		bundle.DemandHeatmap.Routes = append(bundle.DemandHeatmap.Routes, id)
		bundle.DemandHeatmap.Scores = append(bundle.DemandHeatmap.Scores, stats.DemandScore)

		bundle.RouteComparison.Routes = append(bundle.RouteComparison.Routes, id)
		bundle.RouteComparison.AvgPrices = append(bundle.RouteComparison.AvgPrices, stats.AvgPrice)
		bundle.RouteComparison.DemandScores = append(bundle.RouteComparison.DemandScores, stats.DemandScore)
	}

	return bundle
}
