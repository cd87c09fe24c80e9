package review

import (
	"sort"
	"time"
)

// Stats are the headline counters of a view.
type Stats struct {
	RowsLoaded         int    `json:"rows_loaded"`
	FilteredRows       int    `json:"filtered_rows"`
	FilteredDocuments  int    `json:"filtered_documents"`
	LatestDocuments    int    `json:"latest_documents"`
	UnderReview        int    `json:"under_review"`
	UnderReviewPercent string `json:"under_review_percent"`
	Overdue            int    `json:"overdue"`
}

// ComputeStats counts under-review latest documents and overdue reviews.
// A review is overdue when its due date is strictly before now.
func ComputeStats(all, filteredAll, filteredDocs []Record, latest []LatestRecord, now time.Time) Stats {
	s := Stats{
		RowsLoaded:         len(all),
		FilteredRows:       len(filteredAll),
		FilteredDocuments:  len(filteredDocs),
		LatestDocuments:    len(latest),
		UnderReviewPercent: "0.0",
	}
	for _, r := range latest {
		if r.StatusBucket() == BucketUnderReview {
			s.UnderReview++
		}
	}
	if len(latest) > 0 {
		s.UnderReviewPercent = FormatPercent(float64(s.UnderReview) / float64(len(latest)) * 100)
	}
	s.Overdue = len(Overdue(filteredDocs, now))
	return s
}

// Overdue returns the Under Review records whose due date is before now,
// earliest due date first.
func Overdue(records []Record, now time.Time) []Record {
	out := make([]Record, 0)
	for _, r := range records {
		if r.StatusBucket() == BucketUnderReview && r.DueDate != nil && r.DueDate.Before(now) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(*out[j].DueDate) })
	return out
}
