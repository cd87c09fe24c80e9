package review

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// SubmissionLabel names the idx-th (0-based) chronological submission:
// A..Z, then R26, R27, ...
func SubmissionLabel(idx int) string {
	if idx >= 0 && idx < len(letters) {
		return letters[idx : idx+1]
	}
	return "R" + strconv.Itoa(idx)
}

// PhaseFlags are design-phase markers inferred from the issue reason text.
type PhaseFlags struct {
	Thirty bool `json:"thirty"`
	Sixty  bool `json:"sixty"`
	Ninety bool `json:"ninety"`
	IFC    bool `json:"ifc"`
	BD     bool `json:"bd"`
}

// InferPhaseFlags runs independent substring tests on the lowercased text.
func InferPhaseFlags(issueText string) PhaseFlags {
	t := strings.ToLower(issueText)
	return PhaseFlags{
		Thirty: strings.Contains(t, "30%"),
		Sixty:  strings.Contains(t, "60%"),
		Ninety: strings.Contains(t, "90%"),
		IFC:    strings.Contains(t, "construction") || strings.Contains(t, "ifc"),
		BD:     strings.Contains(t, "bd") || strings.Contains(t, "basic design"),
	}
}

// LetteredRow is one document of the open-review register.
type LetteredRow struct {
	Index                int                   `json:"index"`
	Discipline           string                `json:"discipline"`
	IFCToBeIssued        string                `json:"ifc_to_be_issued"`
	DocumentNumber       string                `json:"document_number"`
	Title                string                `json:"title"`
	CurrentRevision      string                `json:"current_revision"`
	Category             string                `json:"category"`
	Submissions          map[string]*time.Time `json:"submissions"` // letter -> date
	CorrespondenceNumber string                `json:"correspondence_number"`
	Status               string                `json:"status"`
	DueDate              *time.Time            `json:"due_date"`
	CompletedDate        *time.Time            `json:"completed_date"`
	Remark               string                `json:"remark"`
	Flags                PhaseFlags            `json:"flags"`
	Recipients           string                `json:"recipients"`
}

// LetteredTable is the open-review register with its shared letter columns.
type LetteredTable struct {
	Columns []string      `json:"columns"`
	Rows    []LetteredRow `json:"rows"`
}

// sortByBestDate orders records by best date ascending. Undated records go
// last and keep their relative order.
func sortByBestDate(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].BestDate, records[j].BestDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
}

// BuildLetteredOpen reconstructs, for every document currently in an open
// bucket among target, its whole submission history from history, relabeled
// A, B, C... in chronological order. history is normally the same selection
// with the status facet ignored.
func BuildLetteredOpen(target, history []Record) LetteredTable {
	keys := make([]string, 0)
	seen := make(map[string]bool)
	targetsByKey := make(map[string][]Record)
	for _, r := range target {
		if !IsOpenBucket(r.StatusBucket()) {
			continue
		}
		key := r.historyKey()
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
		targetsByKey[key] = append(targetsByKey[key], r)
	}

	table := LetteredTable{Columns: []string{}, Rows: []LetteredRow{}}
	if len(keys) == 0 {
		return table
	}

	historyByKey := make(map[string][]Record, len(keys))
	for _, r := range history {
		key := r.historyKey()
		if seen[key] {
			historyByKey[key] = append(historyByKey[key], r)
		}
	}

	maxSubmissions := 0
	for _, key := range keys {
		past := append([]Record(nil), historyByKey[key]...)
		if len(past) == 0 {
			continue
		}
		sortByBestDate(past)

		submissions := make(map[string]*time.Time, len(past))
		for i, r := range past {
			submissions[SubmissionLabel(i)] = r.BestDate
		}
		if len(past) > maxSubmissions {
			maxSubmissions = len(past)
		}

		base := representative(targetsByKey[key], past)

		category := base.IssueReasonText
		if category == "" {
			category = base.IssueReason
		}
		flags := InferPhaseFlags(category)
		ifc := ""
		if flags.IFC {
			ifc = "X"
		}
		current := base.Revision
		if current == "" {
			current = SubmissionLabel(len(past) - 1)
		}

		table.Rows = append(table.Rows, LetteredRow{
			Discipline:           base.DisciplineLabel(),
			IFCToBeIssued:        ifc,
			DocumentNumber:       base.DocumentNumber,
			Title:                base.Title,
			CurrentRevision:      current,
			Category:             category,
			Submissions:          submissions,
			CorrespondenceNumber: base.CorrespondenceNumber,
			Status:               base.StatusBucket(),
			DueDate:              base.DueDate,
			CompletedDate:        firstDate(base.CompletedDate, base.FinalReviewDate),
			Remark:               base.FinalReviewComments,
			Flags:                flags,
			Recipients:           base.RecipientsText(),
		})
	}

	c := textCollator()
	sort.SliceStable(table.Rows, func(i, j int) bool {
		return c.CompareString(table.Rows[i].DocumentNumber, table.Rows[j].DocumentNumber) < 0
	})
	for i := range table.Rows {
		table.Rows[i].Index = i + 1
	}
	for i := 0; i < maxSubmissions; i++ {
		table.Columns = append(table.Columns, SubmissionLabel(i))
	}
	return table
}

// representative picks the record describing a document: the last open
// target row after a stable best-date sort (undated rows sort last, later
// positions win ties), else the most recent history entry.
func representative(targets, sortedHistory []Record) Record {
	if len(targets) > 0 {
		ordered := append([]Record(nil), targets...)
		sortByBestDate(ordered)
		return ordered[len(ordered)-1]
	}
	return sortedHistory[len(sortedHistory)-1]
}
