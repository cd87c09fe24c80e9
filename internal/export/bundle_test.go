package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/correspondence-monitor/internal/review"
)

func testView(t *testing.T) *review.View {
	t.Helper()
	rows := []review.Row{
		{"Document Number": "P-1", "Discipline": "Piping", "Correspondence Status": "Under Review",
			"Revision": "0", "Date Issued": "2024-01-01", "Response Due Date": "2024-01-10",
			"Issue Reason Text": "Issued for Construction", "Recipients": "Owner; Engineer"},
		{"Document Number": "P-1", "Discipline": "Piping", "Final Review Verdict": "Commented",
			"Revision": "A", "Date Issued": "2023-12-01"},
		{"Document Number": "E-1", "Discipline": "Electrical", "Final Review Verdict": "Approved",
			"Revision": "1", "Date Issued": "2024-02-01"},
		{"Correspondence Number": "LTR-1", "Originating Company": "Acme"},
	}
	records := review.NormalizeSheet("register.csv", "Sheet1", rows)
	return review.Build(records, review.Criteria{}, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
}

func TestBuildBundleSheetOrder(t *testing.T) {
	b := BuildBundle(testView(t))
	names := make([]string, 0, len(b.Sheets))
	for _, s := range b.Sheets {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{SheetStats, SheetDisciplineSummary, SheetStatusPivot, SheetRevisionTimeline,
		SheetOpenReviews, SheetLatestDocuments, SheetFilteredRows, SheetChartData}, names)
	assert.Equal(t, WorkbookName, b.Name)
}

func TestStatsSheet(t *testing.T) {
	b := BuildBundle(testView(t))
	s, ok := b.Sheet(SheetStats)
	require.True(t, ok)
	assert.Equal(t, [][]any{
		{"Rows loaded (all sheets)", 4},
		{"Filtered rows (all)", 4},
		{"Documents with revisions (filtered)", 3},
		{"Unique documents (latest)", 2},
	}, s.Rows)
}

func TestPivotSheet(t *testing.T) {
	b := BuildBundle(testView(t))
	s, ok := b.Sheet(SheetStatusPivot)
	require.True(t, ok)
	assert.Equal(t, []string{"Status", "EL", "PI", "Row total"}, s.Columns)
	assert.Equal(t, [][]any{
		{review.BucketApproved, 1, 0, 1},
		{review.BucketUnderReview, 0, 1, 1},
		{"Grand total", 1, 1, 2},
	}, s.Rows)
}

func TestOpenReviewsSheet(t *testing.T) {
	b := BuildBundle(testView(t))
	s, ok := b.Sheet(SheetOpenReviews)
	require.True(t, ok)
	assert.Equal(t, "Rev A", s.Columns[len(s.Columns)-2])
	assert.Equal(t, "Rev B", s.Columns[len(s.Columns)-1])
	require.Len(t, s.Rows, 1)
	row := s.Rows[0]
	assert.Equal(t, 1, row[0])
	assert.Equal(t, "X", row[2])
	assert.Equal(t, "P-1", row[3])
	assert.Equal(t, 1, row[16], "IFC flag")
	assert.Equal(t, "", row[12], "BD flag")
}

func TestEmptySheetCarriesNotice(t *testing.T) {
	v := review.Build(nil, review.Criteria{}, time.Now())
	b := BuildBundle(v)
	s, ok := b.Sheet(SheetFilteredRows)
	require.True(t, ok)
	assert.Equal(t, []string{"Notice"}, s.Columns)
	assert.Equal(t, [][]any{{"No data"}}, s.Rows)
}

func TestSheetNameTruncated(t *testing.T) {
	s := newSheet(strings.Repeat("x", 40), []string{"a"}, [][]any{{1}})
	assert.Len(t, s.Name, 31)
}

func TestWriteCSV(t *testing.T) {
	due := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	s := Sheet{
		Name:    "T",
		Columns: []string{"Doc", "Due", "Count", "Note"},
		Rows: [][]any{
			{"A, B", due, 3, ""},
			{"C"},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, s))
	assert.Equal(t, "Doc,Due,Count,Note\n\"A, B\",05 Mar 24,3,\nC,,,\n", buf.String())
}
