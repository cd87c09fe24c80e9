package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionLabel(t *testing.T) {
	assert.Equal(t, "A", SubmissionLabel(0))
	assert.Equal(t, "Z", SubmissionLabel(25))
	assert.Equal(t, "R26", SubmissionLabel(26))
	assert.Equal(t, "R31", SubmissionLabel(31))
}

func TestInferPhaseFlags(t *testing.T) {
	assert.Equal(t, PhaseFlags{Sixty: true}, InferPhaseFlags("Issued for 60% Review"))
	assert.Equal(t, PhaseFlags{IFC: true}, InferPhaseFlags("Issued for Construction"))
	assert.Equal(t, PhaseFlags{IFC: true}, InferPhaseFlags("IFC"))
	assert.Equal(t, PhaseFlags{BD: true}, InferPhaseFlags("Basic Design package"))
	assert.Equal(t, PhaseFlags{Thirty: true, Ninety: true}, InferPhaseFlags("30% and 90%"))
	assert.Equal(t, PhaseFlags{}, InferPhaseFlags(""))
}

func TestBuildLetteredOpenChronology(t *testing.T) {
	d1 := doc("DOC-1", "C", "Commented", "", day("2024-01-01"))
	d2 := doc("DOC-1", "A", "Approved", "", day("2024-02-01"))
	d3 := doc("DOC-1", "0", "", "Under Review", day("2024-03-01"))
	d3.IssueReasonText = "Issued for Construction"
	d3.DueDate = day("2024-03-15")

	history := []Record{d3, d1, d2}
	table := BuildLetteredOpen([]Record{d3}, history)

	assert.Equal(t, []string{"A", "B", "C"}, table.Columns)
	require.Len(t, table.Rows, 1)
	row := table.Rows[0]
	assert.Equal(t, 1, row.Index)
	assert.True(t, d1.BestDate.Equal(*row.Submissions["A"]))
	assert.True(t, d2.BestDate.Equal(*row.Submissions["B"]))
	assert.True(t, d3.BestDate.Equal(*row.Submissions["C"]))
	assert.Equal(t, "0", row.CurrentRevision)
	assert.Equal(t, BucketUnderReview, row.Status)
	assert.Equal(t, "X", row.IFCToBeIssued)
	assert.True(t, row.Flags.IFC)
	assert.Equal(t, "Issued for Construction", row.Category)
}

func TestBuildLetteredOpenUndatedSortsLast(t *testing.T) {
	d1 := doc("DOC-1", "0", "", "Under Review", day("2024-01-01"))
	undated := doc("DOC-1", "1", "", "Under Review", nil)
	d3 := doc("DOC-1", "2", "", "Under Review", day("2024-03-01"))

	table := BuildLetteredOpen([]Record{d1}, []Record{undated, d1, d3})
	require.Len(t, table.Rows, 1)
	subs := table.Rows[0].Submissions
	require.Len(t, subs, 3)
	assert.True(t, d1.BestDate.Equal(*subs["A"]))
	assert.True(t, d3.BestDate.Equal(*subs["B"]))
	c, ok := subs["C"]
	assert.True(t, ok)
	assert.Nil(t, c)

	table = BuildLetteredOpen([]Record{d1}, []Record{d1, undated})
	b, ok := table.Rows[0].Submissions["B"]
	assert.True(t, ok)
	assert.Nil(t, b)
}

func TestBuildLetteredOpenCurrentRevisionFallsBackToLetter(t *testing.T) {
	a := doc("DOC-9", "", "", "Under Review", day("2024-01-01"))
	b := doc("DOC-9", "", "Commented", "", day("2024-02-01"))
	table := BuildLetteredOpen([]Record{a}, []Record{a, b})
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "B", table.Rows[0].CurrentRevision)
}

func TestBuildLetteredOpenSortsAndNumbers(t *testing.T) {
	z := doc("Z-1", "0", "", "Under Review", day("2024-01-01"))
	a := doc("A-1", "0", "Commented", "", day("2024-01-02"))
	a2 := doc("A-1", "1", "", "Under Review", day("2024-01-05"))
	closed := doc("M-1", "0", "Approved", "", day("2024-01-03"))
	target := []Record{z, a, a2, closed}

	table := BuildLetteredOpen(target, target)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "A-1", table.Rows[0].DocumentNumber)
	assert.Equal(t, 1, table.Rows[0].Index)
	assert.Equal(t, "1", table.Rows[0].CurrentRevision, "latest open target row represents the document")
	assert.Equal(t, "Z-1", table.Rows[1].DocumentNumber)
	assert.Equal(t, 2, table.Rows[1].Index)
	assert.Equal(t, []string{"A", "B"}, table.Columns)
}

func TestBuildLetteredOpenEmpty(t *testing.T) {
	closed := doc("M-1", "0", "Approved", "", day("2024-01-03"))
	table := BuildLetteredOpen([]Record{closed}, []Record{closed})
	assert.Empty(t, table.Rows)
	assert.Empty(t, table.Columns)
}
