package model

import (
	"fmt"
	"time"
)

// DownloadResult is the outcome of one download attempt
type DownloadResult struct {
	Item   Item
	Status ItemStatus
	Path   string // path to the finished file on success
	Err    error  // cause on failure
}

// Message returns the failure message tagged with the item title, or an
// empty string for a successful result.
func (r DownloadResult) Message() string {
	if r.Err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %v", r.Item.Title, r.Err)
}

// BatchSummary aggregates the results of one batch run
type BatchSummary struct {
	Status      BatchStatus
	Total       int
	Succeeded   int
	Failed      int
	Results     []DownloadResult
	StartedAt   time.Time
	FinishedAt  time.Time
	ManifestErr error // last manifest save error, nil once a save succeeded
}

// NewBatchSummary creates a pending summary for a batch of the given size
func NewBatchSummary(total int) *BatchSummary {
	return &BatchSummary{
		Status:  BatchStatusPending,
		Total:   total,
		Results: make([]DownloadResult, 0, total),
	}
}

// Record appends a result and updates the counters
func (s *BatchSummary) Record(result DownloadResult) {
	s.Results = append(s.Results, result)
	switch result.Status {
	case ItemStatusSucceeded:
		s.Succeeded++
	case ItemStatusFailed:
		s.Failed++
	}
}

// Failures returns failure messages in batch order
func (s *BatchSummary) Failures() []string {
	var messages []string
	for _, r := range s.Results {
		if r.Status == ItemStatusFailed {
			messages = append(messages, r.Message())
		}
	}
	return messages
}

// SucceededResults returns successful results in batch order
func (s *BatchSummary) SucceededResults() []DownloadResult {
	var ok []DownloadResult
	for _, r := range s.Results {
		if r.Status == ItemStatusSucceeded {
			ok = append(ok, r)
		}
	}
	return ok
}

// Elapsed returns how long the batch ran
func (s *BatchSummary) Elapsed() time.Duration {
	if s.StartedAt.IsZero() || s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
