package review

import (
	"time"
)

// day returns a UTC midnight date pointer for "2006-01-02".
func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

// doc builds a normalized-looking record for view tests.
func doc(number, rev, verdict, status string, best *time.Time) Record {
	return Record{
		ID:             number + "-" + rev,
		DocumentNumber: number,
		Title:          "Title " + number,
		Revision:       rev,
		Verdict:        verdict,
		Status:         status,
		Bucket:         Classify(verdict, status),
		BestDate:       best,
	}
}
