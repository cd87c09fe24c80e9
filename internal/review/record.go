// Package review turns heterogeneous correspondence/document register rows into
// canonical Records and derives the review dashboard views from them: latest
// revision per document, discipline pivots, revision timelines, the lettered
// open-review register and chart datasets.
//
// Every function in this package is pure. Views are recomputed from scratch
// for each (Record collection, Criteria) pair.
package review

import (
	"strings"
	"time"
)

// Canonical status buckets, in pivot row order.
const (
	BucketApproved    = "Approved"
	BucketCommented   = "Commented & to be Resubmitted"
	BucketRejected    = "Rejected & to be Resubmitted"
	BucketUnderReview = "Under Review"
	BucketReadyForUse = "Ready for use"
	BucketCompleted   = "Completed"
	BucketNotAccepted = "Not Accepted"
	BucketCancelled   = "Cancelled"
	BucketObsolete    = "Obsolete"
	BucketUnknown     = "Unknown"
)

// BucketOrder is the canonical pivot row ordering. Buckets produced by the
// pass-through rule are not listed and therefore never appear as pivot rows.
var BucketOrder = []string{
	BucketApproved,
	BucketCommented,
	BucketRejected,
	BucketUnderReview,
	BucketReadyForUse,
	BucketCompleted,
	BucketNotAccepted,
	BucketCancelled,
	BucketObsolete,
	BucketUnknown,
}

var openBuckets = map[string]bool{
	BucketUnderReview: true,
	BucketCommented:   true,
	BucketRejected:    true,
}

// IsOpenBucket reports whether bucket is an unresolved review cycle.
func IsOpenBucket(bucket string) bool { return openBuckets[bucket] }

// UnspecifiedDiscipline labels records without a discipline in aggregates.
const UnspecifiedDiscipline = "Unspecified"

// Record is one normalized register row. Records are never mutated after
// normalization; derived views copy them.
type Record struct {
	ID                   string   `json:"id"`
	SourceFile           string   `json:"source_file"`
	Sheet                string   `json:"sheet"`
	DocumentNumber       string   `json:"document_number"`
	CorrespondenceNumber string   `json:"correspondence_number"`
	Title                string   `json:"title"`
	Discipline           string   `json:"discipline"`
	DisciplineCode       string   `json:"discipline_code"`
	OriginatingCompany   string   `json:"originating_company"`
	Recipients           []string `json:"recipients"`
	RecipientRaw         string   `json:"recipient_raw"`
	Status               string   `json:"status"`
	Verdict              string   `json:"verdict"`
	Bucket               string   `json:"bucket"`
	IssueReason          string   `json:"issue_reason"`
	IssueReasonText      string   `json:"issue_reason_text"`
	FinalReviewComments  string   `json:"final_review_comments"`
	CorrespondenceType   string   `json:"correspondence_type"`
	WorkPackage          string   `json:"work_package"`
	Revision             string   `json:"revision"`
	Path                 string   `json:"path"`

	DateIssued            *time.Time `json:"date_issued"`
	FinalReviewDate       *time.Time `json:"final_review_date"`
	DueDate               *time.Time `json:"due_date"`
	CompletedDate         *time.Time `json:"completed_date"`
	CorrespondenceCreated *time.Time `json:"correspondence_created"`
	BestDate              *time.Time `json:"best_date"`
}

// DocumentKey groups records belonging to the same physical document:
// document number, else correspondence number, else title.
func (r Record) DocumentKey() string {
	switch {
	case r.DocumentNumber != "":
		return r.DocumentNumber
	case r.CorrespondenceNumber != "":
		return r.CorrespondenceNumber
	default:
		return r.Title
	}
}

// historyKey keeps document-less correspondences apart from documents that
// share an empty key.
func (r Record) historyKey() string {
	if r.DocumentNumber != "" {
		return r.DocumentNumber
	}
	return "corr:" + r.CorrespondenceNumber
}

// DisciplineLabel is the discipline code, falling back to the free-text name.
func (r Record) DisciplineLabel() string {
	if r.DisciplineCode != "" {
		return r.DisciplineCode
	}
	return r.Discipline
}

func (r Record) disciplineKey() string {
	if k := r.DisciplineLabel(); k != "" {
		return k
	}
	return UnspecifiedDiscipline
}

// StatusBucket returns the stored bucket or derives it when absent.
func (r Record) StatusBucket() string {
	if r.Bucket != "" {
		return r.Bucket
	}
	return Classify(r.Verdict, r.Status)
}

// RecipientList is the parsed recipient list, or the raw recipient text when
// it could not be split.
func (r Record) RecipientList() []string {
	if len(r.Recipients) > 0 {
		return r.Recipients
	}
	if r.RecipientRaw != "" {
		return []string{r.RecipientRaw}
	}
	return nil
}

// RecipientsText renders recipients for table cells.
func (r Record) RecipientsText() string {
	if len(r.Recipients) > 0 {
		return strings.Join(r.Recipients, ", ")
	}
	return r.RecipientRaw
}

func (r Record) hasContent() bool {
	return r.OriginatingCompany != "" || r.DocumentNumber != "" ||
		r.CorrespondenceNumber != "" || r.Title != ""
}

// laterThan reports whether a is present and strictly after b (or b absent).
func laterThan(a, b *time.Time) bool {
	return a != nil && (b == nil || a.After(*b))
}

func firstDate(dates ...*time.Time) *time.Time {
	for _, d := range dates {
		if d != nil {
			return d
		}
	}
	return nil
}
