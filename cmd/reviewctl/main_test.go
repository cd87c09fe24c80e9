package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/correspondence-monitor/internal/review"
)

const register = "Document Number,Correspondence Title,Discipline,Project Document Revision,Correspondence Status,Date Issued,Calculated Response Due Date\n" +
	"ABC-ME-001,Pump datasheet,Mechanical,A,Completed,2024-01-05,\n" +
	"ABC-ME-001,Pump datasheet,Mechanical,B,Under Review,2024-02-05,2024-02-20\n" +
	"ABC-EL-002,Cable schedule,Electrical,A,Under Review,2024-02-07,2099-01-01\n"

func writeRegister(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "register.csv"), []byte(register), 0644))
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCleanCriteria(t *testing.T) {
	c := cleanCriteria(review.Criteria{
		Disciplines: []string{"Mechanical", " ", ""},
		Origins:     []string{" Acme, Ltd "},
		Search:      " pump ",
	})
	assert.Equal(t, []string{"Mechanical"}, c.Disciplines)
	assert.Equal(t, []string{"Acme, Ltd"}, c.Origins)
	assert.Nil(t, c.Statuses)
	assert.Equal(t, "pump", c.Search)
}

func TestSummary(t *testing.T) {
	dir := writeRegister(t)
	out := t.TempDir()

	stdout, err := execute(t,
		"--as-of", "2024-03-01",
		"--json", filepath.Join(out, "bundle.json"),
		"--csv", filepath.Join(out, "sheets"),
		dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Rows loaded:        3")
	assert.Contains(t, stdout, "Overdue:            1")
	assert.Contains(t, stdout, "overdue ABC-ME-001 rev B due 20 Feb 24")

	assert.FileExists(t, filepath.Join(out, "bundle.json"))
	assert.FileExists(t, filepath.Join(out, "sheets", "correspondence_analysis_status_pivot.csv"))
}

func TestSummary_Filtered(t *testing.T) {
	dir := writeRegister(t)

	stdout, err := execute(t, "--as-of", "2024-03-01", "--discipline", "EL", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Filtered rows:      1")
	assert.Contains(t, stdout, "Overdue:            0")
}

func TestSummary_Errors(t *testing.T) {
	_, err := execute(t)
	assert.Error(t, err)

	_, err = execute(t, "--as-of", "not a date", t.TempDir())
	assert.Error(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644))
	stdout, err := execute(t, dir)
	assert.Error(t, err)
	assert.Contains(t, stdout, "broken.json")
}
