package review

// FilterOptions are the selectable values of every filter facet.
type FilterOptions struct {
	Origins          []string `json:"origins"`
	Recipients       []string `json:"recipients"`
	Disciplines      []string `json:"disciplines"`
	Statuses         []string `json:"statuses"`
	Verdicts         []string `json:"verdicts"`
	IssueReasons     []string `json:"issue_reasons"`
	IssueReasonTexts []string `json:"issue_reason_texts"`
	Revisions        []string `json:"revisions"`
	Types            []string `json:"types"`
}

type vocabulary struct {
	seen   map[string]bool
	values []string
}

func newVocabulary() *vocabulary {
	return &vocabulary{seen: make(map[string]bool), values: make([]string, 0)}
}

func (v *vocabulary) add(values ...string) {
	for _, s := range values {
		if s == "" || v.seen[s] {
			continue
		}
		v.seen[s] = true
		v.values = append(v.values, s)
	}
}

func (v *vocabulary) sorted() []string {
	sortStrings(v.values, baseCollator())
	return v.values
}

// BuildFilterOptions collects the distinct non-empty values of each facet.
// Values are deduplicated exactly and sorted ignoring case and accents.
// Revisions only come from records that carry a document number.
func BuildFilterOptions(records []Record) FilterOptions {
	origins, recipients, disciplines := newVocabulary(), newVocabulary(), newVocabulary()
	statuses, verdicts, issues := newVocabulary(), newVocabulary(), newVocabulary()
	texts, revisions, types := newVocabulary(), newVocabulary(), newVocabulary()

	for _, r := range records {
		origins.add(r.OriginatingCompany)
		recipients.add(r.RecipientList()...)
		disciplines.add(r.DisciplineLabel())
		statuses.add(r.Status)
		verdicts.add(r.Verdict)
		issues.add(r.IssueReason)
		texts.add(r.IssueReasonText)
		if r.DocumentNumber != "" {
			revisions.add(r.Revision)
		}
		types.add(r.CorrespondenceType)
	}

	return FilterOptions{
		Origins:          origins.sorted(),
		Recipients:       recipients.sorted(),
		Disciplines:      disciplines.sorted(),
		Statuses:         statuses.sorted(),
		Verdicts:         verdicts.sorted(),
		IssueReasons:     issues.sorted(),
		IssueReasonTexts: texts.sorted(),
		Revisions:        revisions.sorted(),
		Types:            types.sorted(),
	}
}
