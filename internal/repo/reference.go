package repo

import "fmt"

// RouteListing is a catalog entry for the routes the service knows about.
type RouteListing struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// RouteInfo carries static reference data for a route.
type RouteInfo struct {
	DistanceKm      int      `json:"distance"`
	TypicalDuration string   `json:"typical_duration"`
	PopularAirlines []string `json:"popular_airlines"`
}

// AirportInfo carries static reference data for an airport.
type AirportInfo struct {
	Name      string  `json:"airport_name"`
	IATA      string  `json:"iata_code"`
	City      string  `json:"city_name"`
	Country   string  `json:"country_name"`
	Timezone  string  `json:"timezone"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AirlineInfo carries static reference data for an airline.
type AirlineInfo struct {
	Name     string `json:"airline_name"`
	IATA     string `json:"iata_code"`
	Country  string `json:"country_name"`
	ICAO     string `json:"icao_code"`
	Callsign string `json:"callsign"`
}

var routeCatalog = []RouteListing{
	{Code: "SYD-MEL", Name: "Sydney to Melbourne"},
	{Code: "SYD-BNE", Name: "Sydney to Brisbane"},
	{Code: "MEL-BNE", Name: "Melbourne to Brisbane"},
	{Code: "SYD-PER", Name: "Sydney to Perth"},
	{Code: "MEL-PER", Name: "Melbourne to Perth"},
	{Code: "BNE-PER", Name: "Brisbane to Perth"},
	{Code: "SYD-ADL", Name: "Sydney to Adelaide"},
	{Code: "MEL-ADL", Name: "Melbourne to Adelaide"},
	{Code: "BNE-ADL", Name: "Brisbane to Adelaide"},
	{Code: "SYD-CBR", Name: "Sydney to Canberra"},
	{Code: "MEL-CBR", Name: "Melbourne to Canberra"},
	{Code: "BNE-CBR", Name: "Brisbane to Canberra"},
}

var routeInfo = map[string]RouteInfo{
	"SYD-MEL": {DistanceKm: 713, TypicalDuration: "1h 25m", PopularAirlines: []string{"Qantas", "Virgin Australia", "Jetstar"}},
	"SYD-BNE": {DistanceKm: 732, TypicalDuration: "1h 30m", PopularAirlines: []string{"Qantas", "Virgin Australia", "Jetstar"}},
	"MEL-BNE": {DistanceKm: 1370, TypicalDuration: "2h 15m", PopularAirlines: []string{"Qantas", "Virgin Australia", "Jetstar"}},
	"SYD-PER": {DistanceKm: 3291, TypicalDuration: "4h 15m", PopularAirlines: []string{"Qantas", "Virgin Australia"}},
	"MEL-PER": {DistanceKm: 2707, TypicalDuration: "3h 45m", PopularAirlines: []string{"Qantas", "Virgin Australia"}},
	"BNE-PER": {DistanceKm: 3605, TypicalDuration: "4h 45m", PopularAirlines: []string{"Qantas", "Virgin Australia"}},
}

var airportInfo = map[string]AirportInfo{
	"SYD": {Name: "Sydney Airport", IATA: "SYD", City: "Sydney", Country: "Australia", Timezone: "Australia/Sydney", Latitude: -33.9399, Longitude: 151.1753},
	"MEL": {Name: "Melbourne Airport", IATA: "MEL", City: "Melbourne", Country: "Australia", Timezone: "Australia/Melbourne", Latitude: -37.8136, Longitude: 144.9631},
	"BNE": {Name: "Brisbane Airport", IATA: "BNE", City: "Brisbane", Country: "Australia", Timezone: "Australia/Brisbane", Latitude: -27.3842, Longitude: 153.1175},
	"PER": {Name: "Perth Airport", IATA: "PER", City: "Perth", Country: "Australia", Timezone: "Australia/Perth", Latitude: -31.9403, Longitude: 115.9669},
	"ADL": {Name: "Adelaide Airport", IATA: "ADL", City: "Adelaide", Country: "Australia", Timezone: "Australia/Adelaide", Latitude: -34.9285, Longitude: 138.6007},
	"CBR": {Name: "Canberra Airport", IATA: "CBR", City: "Canberra", Country: "Australia", Timezone: "Australia/Sydney", Latitude: -35.3069, Longitude: 149.1950},
}

var airlineInfo = map[string]AirlineInfo{
	"QF": {Name: "Qantas Airways", IATA: "QF", Country: "Australia", ICAO: "QFA", Callsign: "QANTAS"},
	"VA": {Name: "Virgin Australia", IATA: "VA", Country: "Australia", ICAO: "VOZ", Callsign: "VELOCITY"},
	"JQ": {Name: "Jetstar Airways", IATA: "JQ", Country: "Australia", ICAO: "JST", Callsign: "JETSTAR"},
	"ZL": {Name: "Regional Express", IATA: "ZL", Country: "Australia", ICAO: "RXA", Callsign: "REX"},
}

// RouteCatalog lists the routes available for analysis, in display order.
func RouteCatalog() []RouteListing {
	out := make([]RouteListing, len(routeCatalog))
	copy(out, routeCatalog)
	return out
}

// LookupRoute returns reference data for a route code.
func LookupRoute(code string) (RouteInfo, bool) {
	info, ok := routeInfo[code]
	return info, ok
}

// LookupAirport returns airport reference data, with an Unknown placeholder
// for codes outside the catalog.
func LookupAirport(iata string) AirportInfo {
	if info, ok := airportInfo[iata]; ok {
		return info
	}
	return AirportInfo{
		Name:     fmt.Sprintf("Unknown Airport (%s)", iata),
		IATA:     iata,
		City:     "Unknown",
		Country:  "Unknown",
		Timezone: "UTC",
	}
}

// LookupAirline returns airline reference data, with an Unknown placeholder
// for codes outside the catalog.
func LookupAirline(iata string) AirlineInfo {
	if info, ok := airlineInfo[iata]; ok {
		return info
	}
	return AirlineInfo{
		Name:     fmt.Sprintf("Unknown Airline (%s)", iata),
		IATA:     iata,
		Country:  "Unknown",
		ICAO:     "UNK",
		Callsign: "UNKNOWN",
	}
}
