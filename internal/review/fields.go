package review

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Row is one raw spreadsheet row: header name -> cell value. Cell values may
// be nil, string, a number, or a time.Time.
type Row map[string]any

// CanonicalField is a logical record field resolved from one of several
// source headers.
type CanonicalField string

const (
	FieldDocumentNumber       CanonicalField = "document_number"
	FieldCorrespondenceNumber CanonicalField = "correspondence_number"
	FieldTitle                CanonicalField = "title"
	FieldDiscipline           CanonicalField = "discipline"
	FieldOriginatingCompany   CanonicalField = "originating_company"
	FieldRecipients           CanonicalField = "recipients"
	FieldVerdict              CanonicalField = "verdict"
	FieldStatus               CanonicalField = "status"
	FieldIssueReason          CanonicalField = "issue_reason"
	FieldIssueReasonText      CanonicalField = "issue_reason_text"
	FieldFinalReviewComments  CanonicalField = "final_review_comments"
	FieldCorrespondenceType   CanonicalField = "correspondence_type"
	FieldWorkPackage          CanonicalField = "work_package"
	FieldRevision             CanonicalField = "revision"
	FieldPath                 CanonicalField = "path"
	FieldDateIssued           CanonicalField = "date_issued"
	FieldFinalReviewDate      CanonicalField = "final_review_date"
	FieldDueDate              CanonicalField = "due_date"
	FieldCompletedDate        CanonicalField = "completed_date"
	FieldCorrespondenceCreate CanonicalField = "correspondence_created"
)

// fieldAliases lists, per canonical field, the source headers accepted for it
// in priority order. Registers exported from different document control
// systems name the same column differently.
var fieldAliases = map[CanonicalField][]string{
	FieldDocumentNumber:       {"Document Number", "Drawing Number", "Name", "Title"},
	FieldCorrespondenceNumber: {"Correspondence Number"},
	FieldTitle:                {"Title", "Correspondence Title", "Name"},
	FieldDiscipline:           {"Discipline"},
	FieldOriginatingCompany:   {"Originating Company"},
	FieldRecipients:           {"Recipient Companies", "Recipients", "Recipient Company"},
	FieldVerdict:              {"Final Review Verdict"},
	FieldStatus:               {"Correspondence Status"},
	FieldIssueReason:          {"Issue Reason"},
	FieldIssueReasonText:      {"Issue Reason Text"},
	FieldFinalReviewComments:  {"Final Review Comments"},
	FieldCorrespondenceType:   {"Correspondence Type", "Item Type"},
	FieldWorkPackage:          {"Work Package"},
	FieldRevision:             {"Project Document Revision", "Revision", "Current Revision"},
	FieldPath:                 {"Path"},

	// Dates
	FieldDateIssued:           {"Date Issued", "Actual Submission Date"},
	FieldFinalReviewDate:      {"Final Review Date"},
	FieldDueDate:              {"Calculated Response Due Date", "Response Due Date"},
	FieldCompletedDate:        {"Completed Date"},
	FieldCorrespondenceCreate: {"Correspondence Created", "Created"},
}

// Aliases returns the accepted source headers for a canonical field.
func Aliases(field CanonicalField) []string {
	return fieldAliases[field]
}

// FirstNonEmpty returns the trimmed text of the first candidate header whose
// value is non-empty after trimming, or "".
func FirstNonEmpty(row Row, candidates ...string) string {
	for _, key := range candidates {
		if v := Clean(row[key]); v != "" {
			return v
		}
	}
	return ""
}

// FirstValue is FirstNonEmpty for raw cell values: it returns the first
// candidate value that is neither nil nor blank text.
func FirstValue(row Row, candidates ...string) any {
	for _, key := range candidates {
		v, ok := row[key]
		if !ok || v == nil {
			continue
		}
		if s, isText := v.(string); isText && strings.TrimSpace(s) == "" {
			continue
		}
		return v
	}
	return nil
}

func resolveText(row Row, field CanonicalField) string {
	return FirstNonEmpty(row, fieldAliases[field]...)
}

func resolveDate(row Row, field CanonicalField) *time.Time {
	return ParseDate(FirstValue(row, fieldAliases[field]...))
}

// Clean renders a cell value as trimmed text. nil becomes "".
func Clean(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return strings.TrimSpace(val.String())
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case *time.Time:
		if val == nil {
			return ""
		}
		return val.UTC().Format(time.RFC3339)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

// splitRecipients splits a recipient cell on ";" or ",".
func splitRecipients(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ';' || r == ',' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
