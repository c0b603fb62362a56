package model

import "time"

// Run holds the results of one pass over an address sequence.
// Results are kept in input order.
type Run struct {
	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the last address completed.
	FinishedAt time.Time `json:"finished_at"`

	// Results contains one entry per fetched address, in input order.
	Results []*Result `json:"results"`
}

// NewRun creates an empty Run started at the given time.
func NewRun(startedAt time.Time) *Run {
	return &Run{
		StartedAt: startedAt,
		Results:   make([]*Result, 0),
	}
}

// Add appends a result.
func (r *Run) Add(result *Result) {
	r.Results = append(r.Results, result)
}

// Finish stamps the run as complete.
func (r *Run) Finish(at time.Time) {
	r.FinishedAt = at
}

// TotalLength returns the sum of decoded lengths across all results.
func (r *Run) TotalLength() int {
	total := 0
	for _, res := range r.Results {
		total += res.Length
	}
	return total
}

// Duration returns how long the run took, or 0 if it has not finished.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
