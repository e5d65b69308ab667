package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"
)

// Standalone stand-in for api.aviationstack.com, for local development
// without an API key. Point AVIATIONSTACK_BASE_URL at it.

type flight struct {
	Airline   airline  `json:"airline"`
	Flight    flightID `json:"flight"`
	Departure schedule `json:"departure"`
	Arrival   schedule `json:"arrival"`
}

type airline struct {
	Name string `json:"name"`
}

type flightID struct {
	IATA string `json:"iata"`
}

type schedule struct {
	Scheduled string `json:"scheduled"`
}

var airlines = []string{"Qantas", "Virgin Australia", "Jetstar", "Rex"}

func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/flights", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("access_key") == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"error": map[string]any{"code": "missing_access_key"},
			})
			return
		}

		flightDate := q.Get("flight_date")
		if flightDate == "" {
			flightDate = time.Now().Format("2006-01-02")
		}

		count := 3 + rand.Intn(6)
		data := make([]flight, 0, count)
		for i := 0; i < count; i++ {
			depHour := 6 + rand.Intn(17)
			data = append(data, flight{
				Airline:   airline{Name: airlines[rand.Intn(len(airlines))]},
				Flight:    flightID{IATA: fmt.Sprintf("QF%d", 100+rand.Intn(900))},
				Departure: schedule{Scheduled: fmt.Sprintf("%sT%02d:%02d:00+00:00", flightDate, depHour, rand.Intn(60))},
				Arrival:   schedule{Scheduled: fmt.Sprintf("%sT%02d:%02d:00+00:00", flightDate, depHour+1, rand.Intn(60))},
			})
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"pagination": map[string]any{"count": count, "total": count},
			"data":       data,
		})
	})

	addr := ":9601"
	log.Printf("mock aviationstack listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
