// Package history defines locally cached search-history records and the
// SQLite store that holds them.
//
// Record lifecycle:
//
//	in-progress ──► completed
//	      │
//	      └───────► failed
//
// Repeating a search moves its record back to in-progress before the
// search runs, then resolves it again.
package history

import "fmt"

// Status values mirror the platform's search lifecycle.
type Status string

const (
	StatusCompleted  Status = "completed"
	StatusInProgress Status = "in-progress"
	StatusFailed     Status = "failed"
)

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusCompleted, StatusInProgress, StatusFailed:
		return st, nil
	}
	return "", fmt.Errorf("unknown search status %q", s)
}

// Filters holds the search parameters a record was created with.
type Filters struct {
	Query        string `json:"query"`
	Location     string `json:"location"`
	JobType      string `json:"job_type"`      // full-time/part-time/contract/internship
	SalaryRange  string `json:"salary_range"`  // e.g. "80k-120k"
	PostedWithin string `json:"posted_within"` // e.g. "7d", "30d"
}
