package sweep

import (
	"github.com/gabriel/reading-tracker/backend/internal/updates"
)

type Outcome string

const (
	OutcomeUpdated             Outcome = "updated"
	OutcomeSkippedNoChange     Outcome = "skipped_no_change"
	OutcomeSkippedEmptyPayload Outcome = "skipped_empty_payload"
	OutcomeSkippedNoSource     Outcome = "skipped_no_source"
	OutcomeError               Outcome = "error"
	// OutcomeDiscarded marks a result fetched after the caller cancelled. It
	// was not written and is not a failure.
	OutcomeDiscarded Outcome = "discarded"

	OutcomeCoverAccessible Outcome = "accessible"
	OutcomeCoverRefreshed  Outcome = "refreshed"
	OutcomeCoverBroken     Outcome = "broken"
	OutcomeSkippedNoCover  Outcome = "skipped_no_cover"
)

type ItemResult struct {
	BookID  string          `json:"bookId"`
	Title   string          `json:"title"`
	Outcome Outcome         `json:"outcome"`
	Changed []updates.Field `json:"changed,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type Report struct {
	Results []ItemResult    `json:"results"`
	Counts  map[Outcome]int `json:"counts"`
	// Cancelled is set when the sweep stopped before every book was checked.
	Cancelled bool `json:"cancelled,omitempty"`
}

func newReport(results []ItemResult) Report {
	counts := make(map[Outcome]int)
	for _, result := range results {
		counts[result.Outcome]++
	}
	return Report{Results: results, Counts: counts}
}

func (r Report) Count(outcome Outcome) int {
	return r.Counts[outcome]
}

func (r Report) ResultsWith(outcome Outcome) []ItemResult {
	matched := make([]ItemResult, 0, r.Counts[outcome])
	for _, result := range r.Results {
		if result.Outcome == outcome {
			matched = append(matched, result)
		}
	}
	return matched
}
