// Command reviewctl loads register files from disk and prints the review
// summary, optionally writing the export bundle as JSON or per-sheet CSV.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ignite/correspondence-monitor/internal/export"
	"github.com/ignite/correspondence-monitor/internal/ingest"
	"github.com/ignite/correspondence-monitor/internal/review"
)

type summaryOptions struct {
	criteria review.Criteria
	jsonOut  string
	csvDir   string
	maxMB    int
	asOf     string
}

func newRootCmd() *cobra.Command {
	var opts summaryOptions

	cmd := &cobra.Command{
		Use:           "reviewctl [flags] FILE|DIR...",
		Short:         "Summarize correspondence review registers",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.criteria = cleanCriteria(opts.criteria)
			return runSummary(cmd.Context(), opts, args, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&opts.criteria.Origins, "origin", nil, "originating company (repeatable)")
	f.StringArrayVar(&opts.criteria.Recipients, "recipient", nil, "recipient company (repeatable)")
	f.StringArrayVar(&opts.criteria.Disciplines, "discipline", nil, "discipline (repeatable)")
	f.StringArrayVar(&opts.criteria.Statuses, "status", nil, "correspondence status (repeatable)")
	f.StringArrayVar(&opts.criteria.Verdicts, "verdict", nil, "final review verdict (repeatable)")
	f.StringArrayVar(&opts.criteria.IssueReasons, "issue", nil, "issue reason (repeatable)")
	f.StringArrayVar(&opts.criteria.IssueReasonTexts, "issue-text", nil, "issue reason text (repeatable)")
	f.StringArrayVar(&opts.criteria.Revisions, "revision", nil, "revision (repeatable)")
	f.StringArrayVar(&opts.criteria.Types, "type", nil, "correspondence type (repeatable)")
	f.StringVar(&opts.criteria.Search, "search", "", "free-text search")
	f.StringVar(&opts.jsonOut, "json", "", "write the export bundle to this JSON file")
	f.StringVar(&opts.csvDir, "csv", "", "write one CSV per export sheet into this directory")
	f.IntVar(&opts.maxMB, "max-mb", 32, "per-file size limit in MB")
	f.StringVar(&opts.asOf, "as-of", "", "reference date for overdue checks (default now)")

	return cmd
}

// cleanCriteria drops blank facet values and trims the search text.
func cleanCriteria(c review.Criteria) review.Criteria {
	clean := func(values []string) []string {
		var out []string
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
		return out
	}
	c.Origins = clean(c.Origins)
	c.Recipients = clean(c.Recipients)
	c.Disciplines = clean(c.Disciplines)
	c.Statuses = clean(c.Statuses)
	c.Verdicts = clean(c.Verdicts)
	c.IssueReasons = clean(c.IssueReasons)
	c.IssueReasonTexts = clean(c.IssueReasonTexts)
	c.Revisions = clean(c.Revisions)
	c.Types = clean(c.Types)
	c.Search = strings.TrimSpace(c.Search)
	return c
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "reviewctl: %v\n", err)
		os.Exit(1)
	}
}

func runSummary(ctx context.Context, opts summaryOptions, paths []string, stdout io.Writer) error {
	now := time.Now()
	if opts.asOf != "" {
		t := review.ParseDate(opts.asOf)
		if t == nil {
			return fmt.Errorf("invalid --as-of date %q", opts.asOf)
		}
		now = *t
	}

	res, err := ingest.NewLoader(int64(opts.maxMB)<<20).Load(ctx, ingest.NewDirSource(paths...))
	if err != nil {
		return err
	}
	for _, f := range res.Files {
		if f.Status != ingest.StatusCompleted {
			fmt.Fprintf(stdout, "%-9s %s %s\n", f.Status, f.File, f.Error)
		}
	}
	if res.Completed() == 0 {
		return fmt.Errorf("no register file could be loaded")
	}

	v := review.Build(res.Records, opts.criteria, now)
	printSummary(stdout, v, now)

	bundle := export.BuildBundle(v)
	if opts.jsonOut != "" {
		if err := writeJSON(opts.jsonOut, bundle); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %s\n", opts.jsonOut)
	}
	if opts.csvDir != "" {
		if err := writeCSVs(opts.csvDir, bundle); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %d sheets to %s\n", len(bundle.Sheets), opts.csvDir)
	}
	return nil
}

func printSummary(w io.Writer, v *review.View, now time.Time) {
	s := v.Stats
	fmt.Fprintf(w, "Rows loaded:        %d\n", s.RowsLoaded)
	fmt.Fprintf(w, "Filtered rows:      %d\n", s.FilteredRows)
	fmt.Fprintf(w, "Filtered documents: %d\n", s.FilteredDocuments)
	fmt.Fprintf(w, "Latest documents:   %d\n", s.LatestDocuments)
	fmt.Fprintf(w, "Under review:       %d (%s%%)\n", s.UnderReview, s.UnderReviewPercent)
	fmt.Fprintf(w, "Overdue:            %d\n", s.Overdue)

	for _, r := range review.Overdue(v.FilteredDocuments, now) {
		fmt.Fprintf(w, "  overdue %s rev %s due %s\n", r.DocumentNumber, r.Revision, review.FormatDate(r.DueDate))
	}
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal bundle: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func writeCSVs(dir string, b *export.Bundle) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for _, s := range b.Sheets {
		name := export.WorkbookName + "_" + strings.ReplaceAll(strings.ToLower(s.Name), " ", "_") + ".csv"
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if err := export.WriteCSV(f, s); err != nil {
			f.Close()
			return fmt.Errorf("sheet %s: %w", s.Name, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
