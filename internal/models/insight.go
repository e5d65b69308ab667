package models

// InsightCategory buckets derived insights by subject.
type InsightCategory string

const (
	InsightPrice   InsightCategory = "price"
	InsightDemand  InsightCategory = "demand"
	InsightBooking InsightCategory = "booking"
	InsightRoute   InsightCategory = "route"
)

// InsightPriority signals how prominently an insight should surface.
type InsightPriority string

const (
	PriorityLow    InsightPriority = "low"
	PriorityMedium InsightPriority = "medium"
	PriorityHigh   InsightPriority = "high"
)

// Insight is a purely derived (category, message, priority) record with no
// independent identity. Route is populated for per-route insights only.
type Insight struct {
	Category InsightCategory `json:"category"`
	Type     string          `json:"type"`
	Route    string          `json:"route,omitempty"`
	Message  string          `json:"message"`
	Priority InsightPriority `json:"priority"`
}
