package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestPerDocument(t *testing.T) {
	records := []Record{
		doc("A", "0", "", "Under Review", day("2024-01-01")),
		doc("B", "0", "", "Under Review", nil),
		doc("A", "1", "", "Under Review", day("2024-02-01")),
		doc("A", "2", "", "Under Review", nil),
		doc("B", "1", "", "Under Review", nil),
		doc("A", "3", "", "Under Review", day("2024-02-01")),
	}

	latest := LatestPerDocument(records)
	require.Len(t, latest, 2)

	assert.Equal(t, "A", latest[0].DocumentNumber)
	assert.Equal(t, "1", latest[0].Revision, "equal dates keep the earlier record")
	assert.True(t, day("2024-02-01").Equal(*latest[0].LatestDate))

	assert.Equal(t, "B", latest[1].DocumentNumber)
	assert.Equal(t, "0", latest[1].Revision, "undated group keeps the first record")
	assert.Nil(t, latest[1].LatestDate)
}

func TestLatestPerDocumentDominatesGroup(t *testing.T) {
	records := []Record{
		doc("X", "0", "", "", day("2023-05-01")),
		doc("X", "1", "", "", day("2023-01-01")),
		doc("X", "2", "", "", day("2023-09-01")),
		doc("X", "3", "", "", nil),
	}
	latest := LatestPerDocument(records)
	require.Len(t, latest, 1)
	for _, r := range records {
		if r.BestDate != nil {
			assert.False(t, r.BestDate.After(*latest[0].LatestDate))
		}
	}
	assert.Equal(t, "2", latest[0].Revision)
}

func TestLatestPerDocumentKeyFallback(t *testing.T) {
	records := []Record{
		{CorrespondenceNumber: "C-1", Title: "one"},
		{CorrespondenceNumber: "C-1", Title: "two", BestDate: day("2024-01-01")},
		{Title: "loose"},
	}
	latest := LatestPerDocument(records)
	require.Len(t, latest, 2)
	assert.Equal(t, "two", latest[0].Title)
	assert.Equal(t, "loose", latest[1].Title)
}
