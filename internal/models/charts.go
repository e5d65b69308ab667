package models

// PriceSeries is a chart-ready per-route fare series.
type PriceSeries struct {
	Route  string    `json:"route"`
	Dates  []string  `json:"dates"`
	Prices []float64 `json:"prices"`
}

// DemandHeatmap carries parallel route/score vectors for a single-row
// heatmap in the 0..10 demand range.
type DemandHeatmap struct {
	Routes []string  `json:"routes"`
	Scores []float64 `json:"scores"`
}

// RouteComparison pairs average prices against demand scores per route.
type RouteComparison struct {
	Routes       []string  `json:"routes"`
	AvgPrices    []float64 `json:"avg_prices"`
	DemandScores []float64 `json:"demand_scores"`
}

// ChartBundle groups the numeric series the chart collaborators render.
// Figure construction itself happens outside this service.
type ChartBundle struct {
	PriceTrends     []PriceSeries   `json:"price_trends"`
	DemandHeatmap   DemandHeatmap   `json:"demand_heatmap"`
	RouteComparison RouteComparison `json:"route_comparison"`
}
