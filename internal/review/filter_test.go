package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func filterFixture() []Record {
	return []Record{
		{ID: "1", DocumentNumber: "P-100", Title: "Pump skid", CorrespondenceNumber: "TRN-1",
			OriginatingCompany: "Acme", Recipients: []string{"Owner", "Engineer"},
			Discipline: "Piping", DisciplineCode: "PI", Status: "Under Review", Revision: "A"},
		{ID: "2", DocumentNumber: "E-200", Title: "Switchgear", CorrespondenceNumber: "TRN-2",
			OriginatingCompany: "Volt", RecipientRaw: "Owner only",
			Discipline: "Electrical", DisciplineCode: "EL", Status: "Completed", Verdict: "Approved", Revision: "0"},
		{ID: "3", CorrespondenceNumber: "LTR-9", Title: "Site access letter",
			OriginatingCompany: "Acme", Discipline: "Geotech", Status: "Open"},
	}
}

func ids(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestFilterIdentity(t *testing.T) {
	records := filterFixture()
	assert.Equal(t, records, Filter(records, Criteria{}))
	assert.True(t, Criteria{Search: "  "}.IsEmpty())
}

func TestFilterAbsentValue(t *testing.T) {
	got := Filter(filterFixture(), Criteria{Origins: []string{"Nobody"}})
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestFilterFacets(t *testing.T) {
	tests := []struct {
		name string
		c    Criteria
		want []string
	}{
		{"origin case-insensitive", Criteria{Origins: []string{"acme"}}, []string{"1", "3"}},
		{"recipient list", Criteria{Recipients: []string{"ENGINEER"}}, []string{"1"}},
		{"recipient raw", Criteria{Recipients: []string{"owner only"}}, []string{"2"}},
		{"discipline code", Criteria{Disciplines: []string{"el"}}, []string{"2"}},
		{"discipline name without code", Criteria{Disciplines: []string{"Geotech"}}, []string{"3"}},
		{"or within facet", Criteria{Statuses: []string{"open", "completed"}}, []string{"2", "3"}},
		{"and across facets", Criteria{Origins: []string{"Acme"}, Revisions: []string{"A"}}, []string{"1"}},
		{"verdict", Criteria{Verdicts: []string{"approved"}}, []string{"2"}},
		{"search title", Criteria{Search: "SKID"}, []string{"1"}},
		{"search correspondence", Criteria{Search: "ltr-9"}, []string{"3"}},
		{"search spans fields", Criteria{Search: "p-100 pump"}, []string{"1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(filterFixture(), tt.c)))
		})
	}
}

func TestFilterIgnoreStatus(t *testing.T) {
	c := Criteria{Statuses: []string{"Completed"}, Origins: []string{"Acme"}}
	assert.Empty(t, Filter(filterFixture(), c))
	assert.Equal(t, []string{"1", "3"}, ids(Filter(filterFixture(), c, IgnoreStatus())))
}

func TestDocumentRows(t *testing.T) {
	assert.Equal(t, []string{"1", "2"}, ids(DocumentRows(filterFixture())))
}
