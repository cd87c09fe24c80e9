package review

import "fmt"

// RowMeta identifies where a raw row came from.
type RowMeta struct {
	File  string
	Sheet string
	Index int
}

// RecordID is the stable identifier of a row: file, sheet and row index.
func (m RowMeta) RecordID() string {
	return fmt.Sprintf("%s-%s-%d", m.File, m.Sheet, m.Index)
}

// NormalizeRow builds a Record from one raw row. The boolean is false for
// blank rows (no originating company, document number, correspondence number
// or title), which callers drop.
func NormalizeRow(row Row, meta RowMeta) (Record, bool) {
	discipline := resolveText(row, FieldDiscipline)
	recipientsRaw := resolveText(row, FieldRecipients)
	status := resolveText(row, FieldStatus)
	verdict := resolveText(row, FieldVerdict)

	rec := Record{
		ID:                   meta.RecordID(),
		SourceFile:           meta.File,
		Sheet:                meta.Sheet,
		DocumentNumber:       resolveText(row, FieldDocumentNumber),
		CorrespondenceNumber: resolveText(row, FieldCorrespondenceNumber),
		Title:                resolveText(row, FieldTitle),
		Discipline:           discipline,
		DisciplineCode:       DisciplineCode(discipline),
		OriginatingCompany:   resolveText(row, FieldOriginatingCompany),
		Recipients:           splitRecipients(recipientsRaw),
		RecipientRaw:         recipientsRaw,
		Status:               status,
		Verdict:              verdict,
		Bucket:               Classify(verdict, status),
		IssueReason:          resolveText(row, FieldIssueReason),
		IssueReasonText:      resolveText(row, FieldIssueReasonText),
		FinalReviewComments:  resolveText(row, FieldFinalReviewComments),
		CorrespondenceType:   resolveText(row, FieldCorrespondenceType),
		WorkPackage:          resolveText(row, FieldWorkPackage),
		Revision:             resolveText(row, FieldRevision),
		Path:                 resolveText(row, FieldPath),

		DateIssued:            resolveDate(row, FieldDateIssued),
		FinalReviewDate:       resolveDate(row, FieldFinalReviewDate),
		DueDate:               resolveDate(row, FieldDueDate),
		CompletedDate:         resolveDate(row, FieldCompletedDate),
		CorrespondenceCreated: resolveDate(row, FieldCorrespondenceCreate),
	}
	rec.BestDate = firstDate(rec.DateIssued, rec.FinalReviewDate, rec.CompletedDate,
		rec.CorrespondenceCreated, rec.DueDate)

	return rec, rec.hasContent()
}

// NormalizeSheet normalizes every row of a sheet, dropping rows without
// content. Row indexes are positions in rows; the ingest readers have already
// dropped blank source rows, so an index counts non-blank rows only.
func NormalizeSheet(file, sheet string, rows []Row) []Record {
	out := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec, ok := NormalizeRow(row, RowMeta{File: file, Sheet: sheet, Index: i})
		if ok {
			out = append(out, rec)
		}
	}
	return out
}
