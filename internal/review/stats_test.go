package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStats(t *testing.T) {
	now := *day("2024-03-10")

	late := doc("A-1", "A", "", "Under Review", day("2024-01-01"))
	late.DueDate = day("2024-03-01")
	later := doc("A-2", "A", "", "Under Review", day("2024-01-01"))
	later.DueDate = day("2024-02-01")
	onTime := doc("A-3", "A", "", "Under Review", day("2024-01-01"))
	onTime.DueDate = day("2024-03-10")
	undated := doc("A-4", "A", "", "Under Review", nil)
	closed := doc("A-5", "A", "Approved", "Completed", day("2024-01-01"))
	closed.DueDate = day("2024-01-05")

	docs := []Record{late, later, onTime, undated, closed}
	latest := LatestPerDocument(docs)

	s := ComputeStats(docs, docs, docs, latest, now)
	assert.Equal(t, 5, s.RowsLoaded)
	assert.Equal(t, 5, s.LatestDocuments)
	assert.Equal(t, 4, s.UnderReview)
	assert.Equal(t, "80.0", s.UnderReviewPercent)
	assert.Equal(t, 2, s.Overdue)

	overdue := Overdue(docs, now)
	require.Len(t, overdue, 2)
	assert.Equal(t, "A-2", overdue[0].DocumentNumber)
	assert.Equal(t, "A-1", overdue[1].DocumentNumber)
}

func TestComputeStats_Empty(t *testing.T) {
	s := ComputeStats(nil, nil, nil, nil, *day("2024-01-01"))
	assert.Equal(t, "0.0", s.UnderReviewPercent)
	assert.Zero(t, s.Overdue)
	assert.Empty(t, Overdue(nil, *day("2024-01-01")))
}
