package history

import "time"

// Record is one cached search-history entry. The terminal UI treats it as
// read-only input; all mutation goes through the Store.
type Record struct {
	ID           string    `json:"id"`
	Query        string    `json:"query"`
	Location     string    `json:"location"`
	JobType      string    `json:"job_type"`
	SalaryRange  string    `json:"salary_range"`
	PostedWithin string    `json:"posted_within"`
	ResultCount  int       `json:"result_count"`
	SearchedAt   time.Time `json:"searched_at"`
	Status       Status    `json:"status"`
	Tags         []string  `json:"tags"`
}

// Filters rebuilds the search parameters for repeating this record.
func (r Record) Filters() Filters {
	return Filters{
		Query:        r.Query,
		Location:     r.Location,
		JobType:      r.JobType,
		SalaryRange:  r.SalaryRange,
		PostedWithin: r.PostedWithin,
	}
}

// NewRecord builds an in-progress record from search filters.
// The store assigns the ID and timestamp on Add when they are zero.
func NewRecord(f Filters, tags []string) Record {
	return Record{
		Query:        f.Query,
		Location:     f.Location,
		JobType:      f.JobType,
		SalaryRange:  f.SalaryRange,
		PostedWithin: f.PostedWithin,
		Status:       StatusInProgress,
		Tags:         tags,
	}
}
