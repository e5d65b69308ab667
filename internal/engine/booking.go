package engine

import (
	"sort"

	"github.com/farewatch/fare-analytics/internal/models"
	"github.com/farewatch/fare-analytics/internal/utils"
)

const (
	bookingWindowMinObservations = 7
	bookingWindowDefaultDays     = 7
	bookingGroupMinSize          = 2
)

// bestBookingWindow searches for the lead time (days after the earliest
// observed date) with the lowest mean fare. Sets with fewer than seven
// observations, or whose day groups all have fewer than two members, fall
// back to the fixed {7, overall mean} default.
func bestBookingWindow(observations []models.FareObservation, prices []float64, avg float64) models.BookingWindow {
	if len(observations) < bookingWindowMinObservations {
		return models.BookingWindow{DaysAhead: bookingWindowDefaultDays, AvgPrice: avg}
	}

	earliest := observations[0].Date
	for _, obs := range observations[1:] {
		if obs.Date.Before(earliest) {
			earliest = obs.Date
		}
	}

	type group struct {
		sum   float64
		count int
	}
	groups := make(map[int]*group)
	for i, obs := range observations {
		days := utils.DaysBetween(earliest, obs.Date)
		g, ok := groups[days]
		if !ok {
			g = &group{}
			groups[days] = g
		}
		g.sum += prices[i]
		g.count++
	}

	days := make([]int, 0, len(groups))
	for d, g := range groups {
		if g.count >= bookingGroupMinSize {
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		return models.BookingWindow{DaysAhead: bookingWindowDefaultDays, AvgPrice: avg}
	}

	// Smaller daysAhead wins ties on mean price.
	sort.Ints(days)
	best := days[0]
	bestMean := groups[best].sum / float64(groups[best].count)
	for _, d := range days[1:] {
		m := groups[d].sum / float64(groups[d].count)
		if m < bestMean {
			best = d
			bestMean = m
		}
	}

	return models.BookingWindow{DaysAhead: best, AvgPrice: bestMean}
}
