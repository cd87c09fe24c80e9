package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortRevisions(t *testing.T) {
	revs := []string{"B", "10", "2", "A", "1", "A10", "A2"}
	SortRevisions(revs)
	assert.Equal(t, []string{"1", "2", "10", "A", "A2", "A10", "B"}, revs)
}

func TestSortRevisions_NonFiniteAreText(t *testing.T) {
	revs := []string{"NaN", "1", "B", "2", "inf"}
	SortRevisions(revs)
	assert.Equal(t, []string{"1", "2", "B", "inf", "NaN"}, revs)

	for _, s := range []string{"NaN", "inf", "-Infinity", "+Inf"} {
		_, err := parseRevisionNumber(s)
		assert.Error(t, err, s)
	}
	n, err := parseRevisionNumber(" 3 ")
	require.NoError(t, err)
	assert.Equal(t, float64(3), n)
}

func TestBuildRevisionTimeline(t *testing.T) {
	docs := []Record{
		doc("P-2", "A", "", "Under Review", day("2024-01-10")),
		doc("P-1", "0", "Commented", "", day("2024-01-01")),
		doc("P-1", "1", "", "Under Review", day("2024-02-01")),
		doc("P-1", "1", "", "Under Review", day("2024-01-20")),
		doc("P-1", "", "", "Under Review", nil),
		doc("P-3", "0", "Approved", "", day("2024-03-01")),
		doc("", "0", "", "Under Review", day("2024-03-01")),
	}

	tl := BuildRevisionTimeline(docs)

	assert.Equal(t, []string{"0", "1", "A", NoRevision}, tl.Columns)
	require.Len(t, tl.Rows, 2)

	p1 := tl.Rows[0]
	assert.Equal(t, "P-1", p1.DocumentNumber)
	assert.Equal(t, "1", p1.CurrentRevision)
	assert.Equal(t, "1", p1.DocRevision)
	assert.Equal(t, BucketUnderReview, p1.Status)
	assert.Len(t, p1.Revisions, 3)
	assert.True(t, day("2024-02-01").Equal(*p1.Revisions["1"]))
	assert.True(t, day("2024-01-01").Equal(*p1.Revisions["0"]))
	na, ok := p1.Revisions[NoRevision]
	assert.True(t, ok)
	assert.Nil(t, na)

	p2 := tl.Rows[1]
	assert.Equal(t, "P-2", p2.DocumentNumber)
	assert.NotContains(t, p2.Revisions, "0")
}

func TestBuildRevisionTimelineBaseKeepsFirstOnTies(t *testing.T) {
	first := doc("D", "A", "", "Under Review", day("2024-01-01"))
	first.Title = "first"
	second := doc("D", "B", "", "Under Review", day("2024-01-01"))
	second.Title = "second"

	tl := BuildRevisionTimeline([]Record{first, second})
	require.Len(t, tl.Rows, 1)
	assert.Equal(t, "first", tl.Rows[0].Title)
	assert.Equal(t, "A", tl.Rows[0].CurrentRevision)
}
