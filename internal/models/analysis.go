package models

import "time"

// AnalysisRequest describes one batch analytics invocation.
type AnalysisRequest struct {
	Source    string   `json:"source"`
	Routes    []string `json:"routes"`
	DaysAhead int      `json:"days_ahead"`
}

// AnalysisResult is the full output tree of one analytics invocation. Every
// field is request-scoped; nothing in here is shared across requests.
type AnalysisResult struct {
	AnalysisID   string                       `json:"analysis_id"`
	Source       string                       `json:"source"`
	Observations map[string][]FareObservation `json:"observations,omitempty"`
	Routes       map[string]*RouteStatistics  `json:"routes"`
	Summary      Summary                      `json:"summary"`
	Insights     []Insight                    `json:"insights"`
	Charts       ChartBundle                  `json:"charts"`
	CreatedAt    time.Time                    `json:"created_at"`
}

// Narrative carries free-text commentary produced from an analysis result.
type Narrative struct {
	AnalysisType    string    `json:"analysis_type"`
	Commentary      []string  `json:"commentary"`
	Recommendations []string  `json:"recommendations"`
	Source          string    `json:"source"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// Narrative sources.
const (
	NarrativeSourceAI       = "ai"
	NarrativeSourceFallback = "fallback"
)
