package review

import (
	"sort"
	"time"
)

// NoRevision labels records whose revision cell is blank.
const NoRevision = "N/A"

// TimelineRow is one document of the revision timeline.
type TimelineRow struct {
	DocumentNumber       string                `json:"document_number"`
	Title                string                `json:"title"`
	Discipline           string                `json:"discipline"`
	OriginatingCompany   string                `json:"originating_company"`
	Recipients           string                `json:"recipients"`
	Status               string                `json:"status"`
	DueDate              *time.Time            `json:"due_date"`
	CorrespondenceNumber string                `json:"correspondence_number"`
	CurrentRevision      string                `json:"current_revision"`
	DocRevision          string                `json:"doc_revision"`
	IssueReasonText      string                `json:"issue_reason_text"`
	IssueReason          string                `json:"issue_reason"`
	CompletedDate        *time.Time            `json:"completed_date"`
	FinalReviewDate      *time.Time            `json:"final_review_date"`
	WorkPackage          string                `json:"work_package"`
	Comments             string                `json:"comments"`
	Revisions            map[string]*time.Time `json:"revisions"` // only revisions seen for this document
}

// RevisionTimeline is the open-review revision matrix.
type RevisionTimeline struct {
	Columns []string      `json:"columns"`
	Rows    []TimelineRow `json:"rows"`
}

type revisionSeen struct {
	date *time.Time
}

type timelineGroup struct {
	base      Record
	revisions map[string]revisionSeen
	latestRev string
	latest    *time.Time
}

// BuildRevisionTimeline maps, per document under open review, each revision
// identifier to the latest date it was seen. The base record of a document is
// its latest-dated record; the first record wins ties.
func BuildRevisionTimeline(docs []Record) RevisionTimeline {
	groups := make(map[string]*timelineGroup)
	order := make([]string, 0)

	for _, r := range docs {
		if !IsOpenBucket(r.StatusBucket()) || r.DocumentNumber == "" {
			continue
		}
		rev := r.Revision
		if rev == "" {
			rev = NoRevision
		}
		date := r.BestDate

		g, ok := groups[r.DocumentNumber]
		if !ok {
			g = &timelineGroup{
				base:      r,
				revisions: map[string]revisionSeen{rev: {date: date}},
				latestRev: rev,
				latest:    date,
			}
			groups[r.DocumentNumber] = g
			order = append(order, r.DocumentNumber)
			continue
		}

		if cur, seen := g.revisions[rev]; !seen || laterThan(date, cur.date) {
			g.revisions[rev] = revisionSeen{date: date}
		}
		if laterThan(date, g.latest) {
			g.latest = date
			g.latestRev = rev
			g.base = r
		}
	}

	columnSet := make(map[string]bool)
	for _, g := range groups {
		for rev := range g.revisions {
			columnSet[rev] = true
		}
	}
	columns := make([]string, 0, len(columnSet))
	for rev := range columnSet {
		columns = append(columns, rev)
	}
	sort.Strings(columns)
	SortRevisions(columns)

	c := textCollator()
	sort.SliceStable(order, func(i, j int) bool {
		return c.CompareString(groups[order[i]].base.DocumentNumber, groups[order[j]].base.DocumentNumber) < 0
	})

	rows := make([]TimelineRow, 0, len(order))
	for _, key := range order {
		g := groups[key]
		b := g.base
		revs := make(map[string]*time.Time, len(g.revisions))
		for rev, seen := range g.revisions {
			revs[rev] = seen.date
		}
		rows = append(rows, TimelineRow{
			DocumentNumber:       b.DocumentNumber,
			Title:                b.Title,
			Discipline:           b.DisciplineLabel(),
			OriginatingCompany:   b.OriginatingCompany,
			Recipients:           b.RecipientsText(),
			Status:               b.StatusBucket(),
			DueDate:              b.DueDate,
			CorrespondenceNumber: b.CorrespondenceNumber,
			CurrentRevision:      g.latestRev,
			DocRevision:          b.Revision,
			IssueReasonText:      b.IssueReasonText,
			IssueReason:          b.IssueReason,
			CompletedDate:        b.CompletedDate,
			FinalReviewDate:      b.FinalReviewDate,
			WorkPackage:          b.WorkPackage,
			Comments:             b.FinalReviewComments,
			Revisions:            revs,
		})
	}
	return RevisionTimeline{Columns: columns, Rows: rows}
}
