package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildFilterOptions(t *testing.T) {
	records := []Record{
		{DocumentNumber: "D1", OriginatingCompany: "beta", Recipients: []string{"Owner", "Éngineer"},
			DisciplineCode: "PI", Status: "Under Review", Revision: "B", CorrespondenceType: "Transmittal"},
		{DocumentNumber: "D2", OriginatingCompany: "Alpha", RecipientRaw: "engineer",
			Discipline: "Geotech", Verdict: "Approved", Revision: "A", IssueReason: "IFR"},
		{CorrespondenceNumber: "L1", OriginatingCompany: "beta", Revision: "Z", IssueReasonText: "For review"},
		{DocumentNumber: "D3", OriginatingCompany: "Beta"},
	}

	opts := BuildFilterOptions(records)

	assert.Equal(t, []string{"Alpha", "beta", "Beta"}, opts.Origins)
	assert.Equal(t, []string{"Éngineer", "engineer", "Owner"}, opts.Recipients)
	assert.Equal(t, []string{"Geotech", "PI"}, opts.Disciplines)
	assert.Equal(t, []string{"Under Review"}, opts.Statuses)
	assert.Equal(t, []string{"Approved"}, opts.Verdicts)
	assert.Equal(t, []string{"IFR"}, opts.IssueReasons)
	assert.Equal(t, []string{"For review"}, opts.IssueReasonTexts)
	assert.Equal(t, []string{"A", "B"}, opts.Revisions, "revisions only come from documents")
	assert.Equal(t, []string{"Transmittal"}, opts.Types)
}

func TestBuildFilterOptionsEmpty(t *testing.T) {
	opts := BuildFilterOptions(nil)
	assert.NotNil(t, opts.Origins)
	assert.Empty(t, opts.Origins)
}
