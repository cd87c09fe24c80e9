package review

import (
	"fmt"
	"math/big"
	"unicode/utf16"
)

var statusColors = map[string]string{
	BucketApproved:    "#63f3c3",
	BucketCommented:   "#f7c948",
	BucketRejected:    "#f57777",
	BucketUnderReview: "#6a8bff",
	BucketReadyForUse: "#63f3c3",
	BucketCompleted:   "#4dd4b0",
	BucketNotAccepted: "#f57777",
	BucketCancelled:   "#9ca3af",
	BucketObsolete:    "#64748b",
	BucketUnknown:     "#cbd5e1",
}

var paletteColors = []string{
	"#63f3c3",
	"#6a8bff",
	"#f7c948",
	"#f57777",
	"#ff9bd0",
	"#8be9fd",
	"#c792ea",
	"#94a3b8",
}

// Palette returns the i-th chart color, wrapping around.
func Palette(i int) string {
	if i < 0 {
		i = -i
	}
	return paletteColors[i%len(paletteColors)]
}

// ColorForStatus maps canonical buckets to fixed colors. Other labels are
// colored by their UTF-16 length, so equal-length labels share a color.
func ColorForStatus(label string) string {
	if c, ok := statusColors[label]; ok {
		return c
	}
	return Palette(len(utf16.Encode([]rune(label))))
}

// FormatPercent renders p with one decimal, rounding the exact binary value
// half away from zero.
func FormatPercent(p float64) string {
	r := new(big.Rat)
	if r.SetFloat64(p) == nil {
		return "0.0"
	}
	neg := r.Sign() < 0
	r.Abs(r)
	r.Mul(r, big.NewRat(10, 1))
	r.Add(r, big.NewRat(1, 2))
	tenths := new(big.Int).Quo(r.Num(), r.Denom())
	whole, frac := new(big.Int).QuoRem(tenths, big.NewInt(10), new(big.Int))
	sign := ""
	if neg && tenths.Sign() != 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%s.%s", sign, whole.String(), frac.String())
}

// StatusDataset is the status distribution chart series over latest
// documents. Labels appear in first-seen order.
type StatusDataset struct {
	Labels      []string  `json:"labels"`     // "<bucket> (x.y%)"
	RawLabels   []string  `json:"raw_labels"` // bucket names
	Counts      []int     `json:"counts"`
	Percentages []float64 `json:"percentages"`
	Colors      []string  `json:"colors"`
}

// DisciplineDataset is the discipline mix chart series over latest documents.
type DisciplineDataset struct {
	Labels []string `json:"labels"`
	Counts []int    `json:"counts"`
	Colors []string `json:"colors"`
}

// countInOrder tallies keys keeping first-seen order.
func countInOrder(latest []LatestRecord, key func(LatestRecord) string) ([]string, []int) {
	labels := make([]string, 0)
	counts := make([]int, 0)
	index := make(map[string]int)
	for _, r := range latest {
		k := key(r)
		i, ok := index[k]
		if !ok {
			index[k] = len(labels)
			labels = append(labels, k)
			counts = append(counts, 1)
			continue
		}
		counts[i]++
	}
	return labels, counts
}

// BuildStatusDataset counts latest documents per bucket.
func BuildStatusDataset(latest []LatestRecord) StatusDataset {
	labels, counts := countInOrder(latest, func(r LatestRecord) string { return r.StatusBucket() })
	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		total = 1
	}
	ds := StatusDataset{
		Labels:      make([]string, len(labels)),
		RawLabels:   labels,
		Counts:      counts,
		Percentages: make([]float64, len(labels)),
		Colors:      make([]string, len(labels)),
	}
	for i, l := range labels {
		pct := float64(counts[i]) / float64(total) * 100
		ds.Percentages[i] = pct
		ds.Labels[i] = fmt.Sprintf("%s (%s%%)", l, FormatPercent(pct))
		ds.Colors[i] = ColorForStatus(l)
	}
	return ds
}

// BuildDisciplineDataset counts latest documents per discipline label.
func BuildDisciplineDataset(latest []LatestRecord) DisciplineDataset {
	labels, counts := countInOrder(latest, func(r LatestRecord) string { return r.disciplineKey() })
	ds := DisciplineDataset{Labels: labels, Counts: counts, Colors: make([]string, len(labels))}
	for i := range labels {
		ds.Colors[i] = Palette(i)
	}
	return ds
}
