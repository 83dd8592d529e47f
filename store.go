package pagefetch

import (
	"context"
	"encoding/json"
	"time"
)

// StoredResult is a FetchResult as persisted by a ResultService.
type StoredResult struct {
	ID        string
	FetchedAt time.Time
	FetchResult
}

// MarshalJSON nests the result so its own encoding does not swallow the
// stored fields.
func (s StoredResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID        string      `json:"id"`
		FetchedAt time.Time   `json:"fetchedAt"`
		Result    FetchResult `json:"result"`
	}{s.ID, s.FetchedAt, s.FetchResult})
}

// ResultFilter represents a filter for FindResults.
type ResultFilter struct {
	URL       *string
	Success   *bool
	ErrorKind *ErrorKind

	// Restricts results to a subset of the total range.
	Limit  int
	Offset int
}

// ResultService stores results and reads them back, newest first.
type ResultService interface {
	ResultStore
	FindResultByID(ctx context.Context, id string) (*StoredResult, error)
	FindResults(ctx context.Context, filter ResultFilter) ([]*StoredResult, error)
}
