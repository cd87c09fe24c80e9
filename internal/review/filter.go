package review

import "strings"

// Criteria is the user's filter selection. Within a facet selections are
// OR-ed; facets are AND-ed. An empty facet imposes no constraint.
type Criteria struct {
	Origins          []string `json:"origins,omitempty"`
	Recipients       []string `json:"recipients,omitempty"`
	Disciplines      []string `json:"disciplines,omitempty"`
	Statuses         []string `json:"statuses,omitempty"`
	Verdicts         []string `json:"verdicts,omitempty"`
	IssueReasons     []string `json:"issue_reasons,omitempty"`
	IssueReasonTexts []string `json:"issue_reason_texts,omitempty"`
	Revisions        []string `json:"revisions,omitempty"`
	Types            []string `json:"types,omitempty"`
	Search           string   `json:"search,omitempty"`
}

// IsEmpty reports whether the criteria select everything.
func (c Criteria) IsEmpty() bool {
	return len(c.Origins) == 0 && len(c.Recipients) == 0 && len(c.Disciplines) == 0 &&
		len(c.Statuses) == 0 && len(c.Verdicts) == 0 && len(c.IssueReasons) == 0 &&
		len(c.IssueReasonTexts) == 0 && len(c.Revisions) == 0 && len(c.Types) == 0 &&
		strings.TrimSpace(c.Search) == ""
}

type filterConfig struct {
	ignoreStatus bool
}

// FilterOption adjusts Filter.
type FilterOption func(*filterConfig)

// IgnoreStatus skips the status facet, used when full document history is
// needed regardless of the current status selection.
func IgnoreStatus() FilterOption {
	return func(fc *filterConfig) { fc.ignoreStatus = true }
}

type facet map[string]bool

func newFacet(values []string) facet {
	if len(values) == 0 {
		return nil
	}
	f := make(facet, len(values))
	for _, v := range values {
		f[strings.ToLower(v)] = true
	}
	return f
}

// admits reports whether value matches the facet; a nil facet admits anything.
func (f facet) admits(value string) bool {
	return f == nil || f[strings.ToLower(value)]
}

func (f facet) admitsAny(values []string) bool {
	if f == nil {
		return true
	}
	for _, v := range values {
		if f[strings.ToLower(v)] {
			return true
		}
	}
	return false
}

type matcher struct {
	search      string
	origins     facet
	recipients  facet
	disciplines facet
	statuses    facet
	verdicts    facet
	issues      facet
	issueTexts  facet
	revisions   facet
	types       facet
}

func newMatcher(c Criteria, fc filterConfig) matcher {
	m := matcher{
		search:      strings.ToLower(strings.TrimSpace(c.Search)),
		origins:     newFacet(c.Origins),
		recipients:  newFacet(c.Recipients),
		disciplines: newFacet(c.Disciplines),
		verdicts:    newFacet(c.Verdicts),
		issues:      newFacet(c.IssueReasons),
		issueTexts:  newFacet(c.IssueReasonTexts),
		revisions:   newFacet(c.Revisions),
		types:       newFacet(c.Types),
	}
	if !fc.ignoreStatus {
		m.statuses = newFacet(c.Statuses)
	}
	return m
}

func (m matcher) match(r Record) bool {
	if m.search != "" {
		blob := strings.ToLower(r.DocumentNumber + " " + r.Title + " " + r.CorrespondenceNumber)
		if !strings.Contains(blob, m.search) {
			return false
		}
	}
	return m.origins.admits(r.OriginatingCompany) &&
		m.recipients.admitsAny(r.RecipientList()) &&
		m.disciplines.admits(r.DisciplineLabel()) &&
		m.statuses.admits(r.Status) &&
		m.verdicts.admits(r.Verdict) &&
		m.issues.admits(r.IssueReason) &&
		m.issueTexts.admits(r.IssueReasonText) &&
		m.revisions.admits(r.Revision) &&
		m.types.admits(r.CorrespondenceType)
}

// Filter returns the records matching c, in input order.
func Filter(records []Record, c Criteria, opts ...FilterOption) []Record {
	var fc filterConfig
	for _, opt := range opts {
		opt(&fc)
	}
	m := newMatcher(c, fc)
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}

// DocumentRows keeps records that carry a document number.
func DocumentRows(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.DocumentNumber != "" {
			out = append(out, r)
		}
	}
	return out
}
