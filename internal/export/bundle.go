// Package export lays the review views out as a multi-sheet workbook bundle
// with human-readable headers, and encodes single sheets as CSV.
package export

import (
	"time"

	"github.com/ignite/correspondence-monitor/internal/review"
)

// WorkbookName is the base file name of an exported bundle.
const WorkbookName = "correspondence_analysis"

const maxSheetName = 31

// Sheet names, in bundle order.
const (
	SheetStats             = "Stats"
	SheetDisciplineSummary = "Discipline Summary"
	SheetStatusPivot       = "Status Pivot"
	SheetRevisionTimeline  = "Revision Timeline"
	SheetOpenReviews       = "Open Reviews"
	SheetLatestDocuments   = "Latest Documents"
	SheetFilteredRows      = "Filtered Rows"
	SheetChartData         = "Chart Data"
	grandTotal             = "Grand total"
	seriesStatus           = "Status distribution"
	seriesDiscipline       = "Discipline mix"
	noticeColumn           = "Notice"
	noticeEmpty            = "No data"
)

// Sheet is one table of the bundle. Cells hold strings, ints or time.Time.
type Sheet struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Bundle is the exported workbook.
type Bundle struct {
	Name   string  `json:"name"`
	Sheets []Sheet `json:"sheets"`
}

// Sheet returns the sheet with the given name.
func (b *Bundle) Sheet(name string) (Sheet, bool) {
	for _, s := range b.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

func newSheet(name string, columns []string, rows [][]any) Sheet {
	r := []rune(name)
	if len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	if len(rows) == 0 {
		return Sheet{Name: name, Columns: []string{noticeColumn}, Rows: [][]any{{noticeEmpty}}}
	}
	return Sheet{Name: name, Columns: columns, Rows: rows}
}

// dateCell keeps present dates and blanks absent ones.
func dateCell(t *time.Time) any {
	if t == nil {
		return ""
	}
	return *t
}

func flagCell(on bool) any {
	if on {
		return 1
	}
	return ""
}

// BuildBundle lays a computed view out as the export workbook.
func BuildBundle(v *review.View) *Bundle {
	return &Bundle{
		Name: WorkbookName,
		Sheets: []Sheet{
			statsSheet(v),
			disciplineSheet(v),
			pivotSheet(v),
			timelineSheet(v),
			openReviewsSheet(v),
			recordSheet(SheetLatestDocuments, latestRecords(v.LatestDocuments)),
			recordSheet(SheetFilteredRows, v.FilteredRows),
			chartSheet(v),
		},
	}
}

func statsSheet(v *review.View) Sheet {
	return newSheet(SheetStats, []string{"Metric", "Value"}, [][]any{
		{"Rows loaded (all sheets)", v.Stats.RowsLoaded},
		{"Filtered rows (all)", v.Stats.FilteredRows},
		{"Documents with revisions (filtered)", v.Stats.FilteredDocuments},
		{"Unique documents (latest)", v.Stats.LatestDocuments},
	})
}

func disciplineSheet(v *review.View) Sheet {
	rows := make([][]any, 0, len(v.Summary.Rows)+1)
	for _, r := range v.Summary.Rows {
		rows = append(rows, []any{r.Discipline, r.Total, r.Issued})
	}
	g := v.Summary.GrandTotal
	rows = append(rows, []any{grandTotal, g.Total, g.Issued})
	return newSheet(SheetDisciplineSummary,
		[]string{"Discipline", "Total drawings/documents", "Total issued"}, rows)
}

func pivotSheet(v *review.View) Sheet {
	p := v.Pivot
	columns := make([]string, 0, len(p.Disciplines)+2)
	columns = append(columns, "Status")
	columns = append(columns, p.Disciplines...)
	columns = append(columns, "Row total")

	rows := make([][]any, 0, len(p.Rows)+1)
	for _, r := range p.Rows {
		row := make([]any, 0, len(columns))
		row = append(row, r.Bucket)
		for _, n := range r.Cells {
			row = append(row, n)
		}
		rows = append(rows, append(row, r.Total))
	}
	grand := make([]any, 0, len(columns))
	grand = append(grand, grandTotal)
	for _, n := range p.GrandTotals {
		grand = append(grand, n)
	}
	rows = append(rows, append(grand, p.GrandTotal))
	return newSheet(SheetStatusPivot, columns, rows)
}

func timelineSheet(v *review.View) Sheet {
	tl := v.Timeline
	columns := []string{"Document number", "Title", "Discipline", "Originating company",
		"Recipients", "Status", "Due date", "Current rev"}
	for _, rev := range tl.Columns {
		columns = append(columns, "Rev "+rev)
	}

	rows := make([][]any, 0, len(tl.Rows))
	for _, r := range tl.Rows {
		row := []any{r.DocumentNumber, r.Title, r.Discipline, r.OriginatingCompany,
			r.Recipients, r.Status, dateCell(r.DueDate), r.CurrentRevision}
		for _, rev := range tl.Columns {
			row = append(row, dateCell(r.Revisions[rev]))
		}
		rows = append(rows, row)
	}
	return newSheet(SheetRevisionTimeline, columns, rows)
}

func openReviewsSheet(v *review.View) Sheet {
	t := v.OpenReviews
	columns := []string{"#", "Discipline", "IFC to be Issued", "Drawing number", "Description",
		"Current revision", "Category", "Correspondence no.", "Status", "Due date",
		"Completed date", "Remark", "BD", "30%", "60%", "90%", "IFC", "Impacted?"}
	for _, letter := range t.Columns {
		columns = append(columns, "Rev "+letter)
	}

	rows := make([][]any, 0, len(t.Rows))
	for _, r := range t.Rows {
		f := r.Flags
		row := []any{r.Index, r.Discipline, r.IFCToBeIssued, r.DocumentNumber, r.Title,
			r.CurrentRevision, r.Category, r.CorrespondenceNumber, r.Status,
			dateCell(r.DueDate), dateCell(r.CompletedDate), r.Remark,
			flagCell(f.BD), flagCell(f.Thirty), flagCell(f.Sixty), flagCell(f.Ninety), flagCell(f.IFC), ""}
		for _, letter := range t.Columns {
			row = append(row, dateCell(r.Submissions[letter]))
		}
		rows = append(rows, row)
	}
	return newSheet(SheetOpenReviews, columns, rows)
}

var recordColumns = []string{
	"Document number", "Correspondence no.", "Title", "Discipline", "Originating company",
	"Recipients", "Status", "Status bucket", "Final verdict", "Revision", "Date issued",
	"Due date", "Final review date", "Completed date", "Created date", "Issue reason",
	"Issue reason text", "Work package", "Type", "Source file",
}

func latestRecords(latest []review.LatestRecord) []review.Record {
	out := make([]review.Record, 0, len(latest))
	for _, l := range latest {
		out = append(out, l.Record)
	}
	return out
}

func recordSheet(name string, records []review.Record) Sheet {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, []any{
			r.DocumentNumber, r.CorrespondenceNumber, r.Title, r.DisciplineLabel(),
			r.OriginatingCompany, r.RecipientsText(), r.Status, r.StatusBucket(), r.Verdict,
			r.Revision, dateCell(r.DateIssued), dateCell(r.DueDate), dateCell(r.FinalReviewDate),
			dateCell(r.CompletedDate), dateCell(r.CorrespondenceCreated), r.IssueReason,
			r.IssueReasonText, r.WorkPackage, r.CorrespondenceType, r.SourceFile,
		})
	}
	return newSheet(name, recordColumns, rows)
}

func chartSheet(v *review.View) Sheet {
	s, d := v.StatusDataset, v.DisciplineDataset
	rows := make([][]any, 0, len(s.RawLabels)+len(d.Labels))
	for i, label := range s.RawLabels {
		rows = append(rows, []any{seriesStatus, label, s.Counts[i], review.FormatPercent(s.Percentages[i])})
	}
	for i, label := range d.Labels {
		rows = append(rows, []any{seriesDiscipline, label, d.Counts[i], ""})
	}
	return newSheet(SheetChartData, []string{"Series", "Label", "Value", "Percent"}, rows)
}
