package repo

import "fmt"

// FetchError describes a failed acquisition attempt. The analytics core
// never sees these; the service layer decides whether to substitute
// synthetic data or surface the failure.
type FetchError struct {
	Source string
	Route  string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("%s fetch failed", e.Source)
	if e.Route != "" {
		msg = fmt.Sprintf("%s for route %s", msg, e.Route)
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
