package repo

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/farewatch/fare-analytics/internal/models"
	"github.com/farewatch/fare-analytics/internal/utils"
)

const (
	mockDayCap     = 30
	mockPriceFloor = 50

	weekendMultiplier = 1.2
	summerMultiplier  = 1.3 // southern-hemisphere peak season, Dec-Feb
	winterMultiplier  = 0.9 // Jun-Aug
)

var mockBasePrices = map[string]float64{
	"SYD-MEL": 120,
	"SYD-BNE": 95,
	"MEL-BNE": 85,
	"SYD-PER": 180,
	"MEL-PER": 160,
	"BNE-PER": 170,
	"SYD-ADL": 110,
	"MEL-ADL": 90,
	"BNE-ADL": 100,
	"SYD-CBR": 70,
	"MEL-CBR": 80,
	"BNE-CBR": 85,
}

var mockAirlines = []string{"Qantas", "Virgin Australia", "Jetstar", "Rex"}

var mockStops = []string{"Direct", "1 stop", "2 stops"}

// MockSource generates synthetic fare observations that mimic real market
// behavior: weekend premiums, seasonal swings and day-to-day noise around a
// per-route base price. Output is deterministic for a given seed and start
// day, which keeps analyses reproducible.
type MockSource struct {
	seed int64
	now  func() time.Time
}

// NewMockSource constructs a generator. A zero seed is replaced with the
// current time so repeated demo runs still vary.
func NewMockSource(seed int64) *MockSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MockSource{seed: seed, now: time.Now}
}

// FetchRouteFares generates one observation per route per day, capped at 30
// days ahead. It never fails; the error return satisfies the source contract.
func (m *MockSource) FetchRouteFares(_ context.Context, routes []string, daysAhead int) (map[string][]models.FareObservation, error) {
	if daysAhead > mockDayCap {
		daysAhead = mockDayCap
	}
	if daysAhead < 1 {
		daysAhead = 1
	}
	start := utils.TruncateToDay(m.now())

	out := make(map[string][]models.FareObservation, len(routes))
	for _, route := range routes {
		basePrice, ok := mockBasePrices[route]
		if !ok {
			basePrice = 100
		}
		rng := rand.New(rand.NewSource(m.seed ^ routeSeed(route)))

		observations := make([]models.FareObservation, 0, daysAhead)
		for i := 0; i < daysAhead; i++ {
			date := start.AddDate(0, 0, i)

			price := basePrice * seasonalMultiplier(date.Month()) * (0.8 + 0.5*rng.Float64())
			if isWeekendDay(date) {
				price *= weekendMultiplier
			}
			price = math.Trunc(price)
			if price < mockPriceFloor {
				price = mockPriceFloor
			}

			observations = append(observations, models.FareObservation{
				Date:          date,
				Price:         price,
				Airline:       mockAirlines[rng.Intn(len(mockAirlines))],
				DepartureTime: randomClock(rng),
				ArrivalTime:   randomClock(rng),
				FlightNumber:  fmt.Sprintf("QF%d", 100+rng.Intn(900)),
				Duration:      fmt.Sprintf("%dh %dm", 1+rng.Intn(3), rng.Intn(60)),
				Stops:         mockStops[rng.Intn(len(mockStops))],
			})
		}
		out[route] = observations
	}
	return out, nil
}

func seasonalMultiplier(month time.Month) float64 {
	switch month {
	case time.December, time.January, time.February:
		return summerMultiplier
	case time.June, time.July, time.August:
		return winterMultiplier
	default:
		return 1.0
	}
}

func isWeekendDay(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func randomClock(rng *rand.Rand) string {
	return fmt.Sprintf("%02d:%02d", 6+rng.Intn(17), rng.Intn(60))
}

func routeSeed(route string) int64 {
	h := fnv.New64a()
	h.Write([]byte(route))
	return int64(h.Sum64())
}
