package review

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstNonEmpty(t *testing.T) {
	row := Row{"A": "  ", "B": nil, "C": " value ", "D": "other"}
	assert.Equal(t, "value", FirstNonEmpty(row, "A", "B", "C", "D"))
	assert.Equal(t, "", FirstNonEmpty(row, "A", "B", "missing"))
	assert.Equal(t, "12", FirstNonEmpty(Row{"n": float64(12)}, "n"))
}

func TestFirstValue(t *testing.T) {
	row := Row{"A": "", "B": 45000.0}
	assert.Equal(t, 45000.0, FirstValue(row, "A", "B"))
	assert.Nil(t, FirstValue(row, "A"))
}

func TestParseDate(t *testing.T) {
	native := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   any
		want *time.Time
	}{
		{"nil", nil, nil},
		{"empty text", "   ", nil},
		{"native", native, &native},
		{"serial", 45000.0, day("2023-03-15")},
		{"serial as int", 45000, day("2023-03-15")},
		{"serial as json number", json.Number("45000"), day("2023-03-15")},
		{"iso text", "2024-01-05", day("2024-01-05")},
		{"garbage", "N/A", nil},
		{"words", "not a date at all", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %v want %v", got, tt.want)
		})
	}
}

func TestSerialToTimeIsExact(t *testing.T) {
	got := SerialToTime(45000)
	assert.Equal(t, int64((45000-25569)*86400), got.Unix())
	assert.Equal(t, int64(1678838400), got.Unix())

	half := SerialToTime(45000.5)
	assert.Equal(t, 12, half.Hour())
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "05 Mar 24", FormatDate(day("2024-03-05")))
	assert.Equal(t, "", FormatDate(nil))
}

func TestDisciplineCode(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Piping", "PI"},
		{"Civil & Structural", "CS"},
		{"Safety", "SF"},
		{"Random Field Name", "RF"},
		{"geotechnical", "G"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, DisciplineCode(tt.in))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name            string
		verdict, status string
		want            string
	}{
		{"commented beats status", "Commented", "Approved", BucketCommented},
		{"commented beats under review", "Approved with comments - Commented", "Under Review", BucketCommented},
		{"approved with comments is approved", "Approved with comments", "Under Review", BucketApproved},
		{"rejected needs resubmission", "Rejected - resubmission required", "", BucketRejected},
		{"rejected alone passes through", "Rejected", "", "Rejected"},
		{"under review", "", "Under Review", BucketUnderReview},
		{"ready for use", "", "ready for use", BucketReadyForUse},
		{"completed without verdict", "", "Completed", BucketCompleted},
		{"completed keeps verdict", "Noted", "Completed", "Noted"},
		{"not accepted", "", "Not Accepted", BucketNotAccepted},
		{"cancelled", "", "CANCELLED", BucketCancelled},
		{"obsolete", "", "Obsolete", BucketObsolete},
		{"verdict passthrough", "For information", "Open", "For information"},
		{"status passthrough", "", "Draft", "Draft"},
		{"unknown", "", "", BucketUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.verdict, tt.status))
		})
	}
}

func TestNormalizeRow(t *testing.T) {
	row := Row{
		"Drawing Number":               "DOC-001",
		"Correspondence Number":        "TRN-0042",
		"Correspondence Title":         "Pump layout",
		"Discipline":                   "Piping",
		"Originating Company":          "Acme",
		"Recipient Companies":          "Owner; Engineer , ",
		"Final Review Verdict":         "",
		"Correspondence Status":        "Under Review",
		"Issue Reason Text":            "Issued for 60% review",
		"Revision":                     "B",
		"Date Issued":                  "",
		"Completed Date":               nil,
		"Calculated Response Due Date": 45000.0,
		"Correspondence Created":       "2023-03-01",
	}

	rec, ok := NormalizeRow(row, RowMeta{File: "register.csv", Sheet: "Sheet1", Index: 3})
	require.True(t, ok)

	assert.Equal(t, "register.csv-Sheet1-3", rec.ID)
	assert.Equal(t, "DOC-001", rec.DocumentNumber)
	assert.Equal(t, "TRN-0042", rec.CorrespondenceNumber)
	assert.Equal(t, "Pump layout", rec.Title)
	assert.Equal(t, "PI", rec.DisciplineCode)
	assert.Equal(t, []string{"Owner", "Engineer"}, rec.Recipients)
	assert.Equal(t, BucketUnderReview, rec.Bucket)
	assert.Equal(t, "B", rec.Revision)
	require.NotNil(t, rec.DueDate)
	assert.True(t, day("2023-03-15").Equal(*rec.DueDate))

	// issued, final review and completed are absent, so created wins over due
	require.NotNil(t, rec.BestDate)
	assert.True(t, day("2023-03-01").Equal(*rec.BestDate))
}

func TestNormalizeRowTitleFallsBackToDocumentNumber(t *testing.T) {
	rec, ok := NormalizeRow(Row{"Title": "Site plan"}, RowMeta{File: "f", Sheet: "s"})
	require.True(t, ok)
	assert.Equal(t, "Site plan", rec.DocumentNumber)
	assert.Equal(t, "Site plan", rec.Title)
	assert.Nil(t, rec.BestDate)
	assert.Equal(t, BucketUnknown, rec.Bucket)
}

func TestNormalizeSheetDropsBlankRows(t *testing.T) {
	rows := []Row{
		{"Document Number": "A-1"},
		{"Discipline": "Piping", "Revision": "0"},
		{"Originating Company": "Acme"},
	}
	recs := NormalizeSheet("f.csv", "Sheet1", rows)
	require.Len(t, recs, 2)
	assert.Equal(t, "f.csv-Sheet1-0", recs[0].ID)
	assert.Equal(t, "f.csv-Sheet1-2", recs[1].ID)
}
