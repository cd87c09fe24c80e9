package review

import "sort"

// DisciplineTotal counts latest documents of one discipline.
type DisciplineTotal struct {
	Total  int `json:"total"`
	Issued int `json:"issued"`
}

// DisciplineData is the discipline roll-up of the latest documents.
type DisciplineData struct {
	Totals      map[string]DisciplineTotal `json:"totals"`
	Pivot       map[string]map[string]int  `json:"pivot"` // bucket -> discipline -> count
	Disciplines []string                   `json:"disciplines"`
}

// AggregateDisciplines computes per-discipline totals and the
// status x discipline pivot over the latest documents.
func AggregateDisciplines(latest []LatestRecord) DisciplineData {
	d := DisciplineData{
		Totals: make(map[string]DisciplineTotal),
		Pivot:  make(map[string]map[string]int),
	}
	for _, r := range latest {
		disc := r.disciplineKey()
		t := d.Totals[disc]
		t.Total++
		if r.DateIssued != nil || r.FinalReviewDate != nil || r.BestDate != nil {
			t.Issued++
		}
		d.Totals[disc] = t

		bucket := r.StatusBucket()
		if d.Pivot[bucket] == nil {
			d.Pivot[bucket] = make(map[string]int)
		}
		d.Pivot[bucket][disc]++
	}

	d.Disciplines = make([]string, 0, len(d.Totals))
	for disc := range d.Totals {
		d.Disciplines = append(d.Disciplines, disc)
	}
	sort.Strings(d.Disciplines)
	return d
}

// DisciplineRow is one line of the discipline summary table.
type DisciplineRow struct {
	Discipline string `json:"discipline"`
	Total      int    `json:"total"`
	Issued     int    `json:"issued"`
}

// DisciplineSummary is the discipline totals table with its grand total.
type DisciplineSummary struct {
	Rows       []DisciplineRow `json:"rows"`
	GrandTotal DisciplineRow   `json:"grand_total"`
}

// Summary renders the totals table in discipline order.
func (d DisciplineData) Summary() DisciplineSummary {
	s := DisciplineSummary{
		Rows:       make([]DisciplineRow, 0, len(d.Disciplines)),
		GrandTotal: DisciplineRow{Discipline: "Grand total"},
	}
	for _, disc := range d.Disciplines {
		t := d.Totals[disc]
		s.Rows = append(s.Rows, DisciplineRow{Discipline: disc, Total: t.Total, Issued: t.Issued})
		s.GrandTotal.Total += t.Total
		s.GrandTotal.Issued += t.Issued
	}
	return s
}

// PivotRow is one bucket of the status pivot.
type PivotRow struct {
	Bucket string `json:"bucket"`
	Cells  []int  `json:"cells"` // aligned with PivotTable.Disciplines
	Total  int    `json:"total"`
}

// PivotTable is the status x discipline pivot view.
type PivotTable struct {
	Disciplines []string   `json:"disciplines"`
	Rows        []PivotRow `json:"rows"`
	GrandTotals []int      `json:"grand_totals"`
	GrandTotal  int        `json:"grand_total"`
}

// PivotTable lays the pivot out in canonical bucket order. Buckets outside
// BucketOrder are left out of both the rows and the grand totals.
func (d DisciplineData) PivotTable() PivotTable {
	p := PivotTable{
		Disciplines: append([]string(nil), d.Disciplines...),
		Rows:        make([]PivotRow, 0, len(BucketOrder)),
		GrandTotals: make([]int, len(d.Disciplines)),
	}
	if p.Disciplines == nil {
		p.Disciplines = []string{}
	}
	for _, bucket := range BucketOrder {
		counts, ok := d.Pivot[bucket]
		if !ok {
			continue
		}
		row := PivotRow{Bucket: bucket, Cells: make([]int, len(d.Disciplines))}
		for i, disc := range d.Disciplines {
			n := counts[disc]
			row.Cells[i] = n
			row.Total += n
			p.GrandTotals[i] += n
		}
		p.GrandTotal += row.Total
		p.Rows = append(p.Rows, row)
	}
	return p
}
