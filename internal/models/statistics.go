package models

// PriceTrend classifies the direction of a route's fare movement.
type PriceTrend string

const (
	TrendIncreasing       PriceTrend = "increasing"
	TrendDecreasing       PriceTrend = "decreasing"
	TrendStable           PriceTrend = "stable"
	TrendInsufficientData PriceTrend = "insufficient_data"
)

// AirlineCount pairs an airline label with its observation count.
type AirlineCount struct {
	Airline string `json:"airline"`
	Count   int    `json:"count"`
}

// BookingWindow describes the lead time that historically yields the
// lowest average fare.
type BookingWindow struct {
	DaysAhead int     `json:"days_ahead"`
	AvgPrice  float64 `json:"avg_price"`
}

// RouteStatistics is the derived statistics record for one route. It is
// immutable once computed; a route with zero valid priced observations has
// no record at all rather than a zero-valued one.
type RouteStatistics struct {
	Route              string         `json:"route"`
	MinPrice           float64        `json:"min_price"`
	MaxPrice           float64        `json:"max_price"`
	AvgPrice           float64        `json:"avg_price"`
	MedianPrice        float64        `json:"median_price"`
	PriceStdDev        float64        `json:"price_std"`
	PriceVolatilityPct float64        `json:"price_volatility"`
	TotalObservations  int            `json:"total_flights"`
	CheapestDate       string         `json:"cheapest_date"`
	MostExpensiveDate  string         `json:"most_expensive_date"`
	PriceTrend         PriceTrend     `json:"price_trend"`
	DemandScore        float64        `json:"demand_score"`
	PopularAirlines    []AirlineCount `json:"popular_airlines"`
	BestBookingWindow  BookingWindow  `json:"best_booking_window"`
}

// PriceRange bounds the flattened per-route price multiset.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// RouteRanking is one entry in the price-ordered route lists.
type RouteRanking struct {
	Route              string  `json:"route"`
	AvgPrice           float64 `json:"avg_price"`
	DemandScore        float64 `json:"demand_score"`
	PriceVolatilityPct float64 `json:"price_volatility"`
}

// Summary aggregates every route's statistics record for one analysis
// request. The overall figures are computed over the flattened
// {min, max, avg} multiset per route, not over raw observations.
type Summary struct {
	TotalRoutes         int            `json:"total_routes"`
	OverallAvgPrice     float64        `json:"overall_avg_price"`
	OverallPriceRange   PriceRange     `json:"overall_price_range"`
	HighDemandRoutes    []string       `json:"high_demand_routes"`
	LowDemandRoutes     []string       `json:"low_demand_routes"`
	MostExpensiveRoutes []RouteRanking `json:"most_expensive_routes"`
	CheapestRoutes      []RouteRanking `json:"cheapest_routes"`
}
