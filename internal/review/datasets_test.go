package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{100, "100.0"},
		{12.25, "12.3"},
		{1.45, "1.4"}, // binary value is just below 1.45
		{200.0 / 3.0, "66.7"},
		{100.0 / 3.0, "33.3"},
		{0.04, "0.0"},
		{-2.5, "-2.5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPercent(tt.in), "%v", tt.in)
	}
}

func TestColorForStatus(t *testing.T) {
	assert.Equal(t, "#63f3c3", ColorForStatus(BucketApproved))
	assert.Equal(t, "#6a8bff", ColorForStatus(BucketUnderReview))
	assert.Equal(t, "#cbd5e1", ColorForStatus(BucketUnknown))
	// unknown labels collide by length
	assert.Equal(t, Palette(3), ColorForStatus("abc"))
	assert.Equal(t, ColorForStatus("abc"), ColorForStatus("xyz"))
	assert.Equal(t, Palette(0), Palette(8))
}

func TestBuildStatusDataset(t *testing.T) {
	latest := []LatestRecord{
		{Record: Record{Bucket: BucketUnderReview}},
		{Record: Record{Bucket: BucketApproved}},
		{Record: Record{Bucket: BucketUnderReview}},
		{Record: Record{Verdict: "Commented"}},
	}
	ds := BuildStatusDataset(latest)

	assert.Equal(t, []string{BucketUnderReview, BucketApproved, BucketCommented}, ds.RawLabels)
	assert.Equal(t, []int{2, 1, 1}, ds.Counts)
	assert.Equal(t, []float64{50, 25, 25}, ds.Percentages)
	assert.Equal(t, "Under Review (50.0%)", ds.Labels[0])
	assert.Equal(t, []string{"#6a8bff", "#63f3c3", "#f7c948"}, ds.Colors)
}

func TestBuildStatusDatasetEmpty(t *testing.T) {
	ds := BuildStatusDataset(nil)
	assert.Empty(t, ds.Labels)
	assert.Empty(t, ds.Counts)
}

func TestBuildDisciplineDataset(t *testing.T) {
	latest := []LatestRecord{
		{Record: Record{DisciplineCode: "PI"}},
		{Record: Record{}},
		{Record: Record{DisciplineCode: "PI"}},
		{Record: Record{Discipline: "Geotech"}},
	}
	ds := BuildDisciplineDataset(latest)
	assert.Equal(t, []string{"PI", UnspecifiedDiscipline, "Geotech"}, ds.Labels)
	assert.Equal(t, []int{2, 1, 1}, ds.Counts)
	assert.Equal(t, []string{Palette(0), Palette(1), Palette(2)}, ds.Colors)
}
