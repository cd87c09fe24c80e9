package review

import "time"

// View is every derived view-model for one (records, criteria) pair.
type View struct {
	Criteria          Criteria          `json:"criteria"`
	Stats             Stats             `json:"stats"`
	FilteredRows      []Record          `json:"filtered_rows"`
	FilteredDocuments []Record          `json:"-"`
	LatestDocuments   []LatestRecord    `json:"latest_documents"`
	Disciplines       DisciplineData    `json:"-"`
	Summary           DisciplineSummary `json:"discipline_summary"`
	Pivot             PivotTable        `json:"status_pivot"`
	Timeline          RevisionTimeline  `json:"revision_timeline"`
	OpenReviews       LetteredTable     `json:"open_reviews"`
	StatusDataset     StatusDataset     `json:"status_dataset"`
	DisciplineDataset DisciplineDataset `json:"discipline_dataset"`
}

// Build recomputes every view from scratch. now decides which reviews are
// overdue.
func Build(records []Record, c Criteria, now time.Time) *View {
	filteredAll := Filter(records, c)
	docRows := DocumentRows(records)
	filteredDocs := Filter(docRows, c)
	history := Filter(docRows, c, IgnoreStatus())
	latest := LatestPerDocument(filteredDocs)
	disciplines := AggregateDisciplines(latest)

	return &View{
		Criteria:          c,
		Stats:             ComputeStats(records, filteredAll, filteredDocs, latest, now),
		FilteredRows:      filteredAll,
		FilteredDocuments: filteredDocs,
		LatestDocuments:   latest,
		Disciplines:       disciplines,
		Summary:           disciplines.Summary(),
		Pivot:             disciplines.PivotTable(),
		Timeline:          BuildRevisionTimeline(filteredDocs),
		OpenReviews:       BuildLetteredOpen(filteredDocs, history),
		StatusDataset:     BuildStatusDataset(latest),
		DisciplineDataset: BuildDisciplineDataset(latest),
	}
}
