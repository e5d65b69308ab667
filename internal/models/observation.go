package models

import (
	"math"
	"time"
)

// FareObservation is one quoted fare for one route on one candidate date.
// Optional fields default to empty strings; a price that failed numeric
// coercion upstream is carried as NaN and excluded from all arithmetic.
type FareObservation struct {
	Date          time.Time `json:"date"`
	Price         float64   `json:"price"`
	Airline       string    `json:"airline"`
	DepartureTime string    `json:"departure_time,omitempty"`
	ArrivalTime   string    `json:"arrival_time,omitempty"`
	FlightNumber  string    `json:"flight_number,omitempty"`
	Duration      string    `json:"duration,omitempty"`
	Stops         string    `json:"stops,omitempty"`
}

// HasValidPrice reports whether the observation carries a finite price.
func (o FareObservation) HasValidPrice() bool {
	return !math.IsNaN(o.Price) && !math.IsInf(o.Price, 0)
}

// IsWeekend classifies the observation date as Saturday or Sunday.
func (o FareObservation) IsWeekend() bool {
	wd := o.Date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
