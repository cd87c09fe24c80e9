package review

import "time"

// LatestRecord is a Record selected as the latest revision of its document.
type LatestRecord struct {
	Record
	LatestDate *time.Time `json:"latest_date"`
}

// LatestPerDocument collapses records to one per document key, keeping the
// one with the greatest best date. The first record of a group stays unless a
// later one has a present, strictly greater date. Records without any key are
// skipped. Output is in first-seen group order.
func LatestPerDocument(records []Record) []LatestRecord {
	index := make(map[string]int)
	out := make([]LatestRecord, 0)
	for _, r := range records {
		key := r.DocumentKey()
		if key == "" {
			continue
		}
		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, LatestRecord{Record: r, LatestDate: r.BestDate})
			continue
		}
		if laterThan(r.BestDate, out[i].LatestDate) {
			out[i] = LatestRecord{Record: r, LatestDate: r.BestDate}
		}
	}
	return out
}
