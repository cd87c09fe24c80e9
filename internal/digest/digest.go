// Package digest renders a plain-text summary of a review view with a Liquid
// template: headline counters, overdue reviews, open review register and the
// status mix.
package digest

import (
	"fmt"
	"strings"
	"time"

	"github.com/osteele/liquid"

	"github.com/ignite/correspondence-monitor/internal/review"
)

// DefaultTemplate is used when no template is configured.
const DefaultTemplate = `Correspondence review digest
Generated {{ generated_at }}{% if dataset_id != "" %} | dataset {{ dataset_id }} loaded {{ loaded_at }}{% endif %}
{% if filters.size > 0 %}Filters:
{% for f in filters %}  - {{ f }}
{% endfor %}{% endif %}
Rows loaded:          {{ stats.rows_loaded }}
Filtered rows:        {{ stats.filtered_rows }}
Filtered documents:   {{ stats.filtered_documents }}
Latest documents:     {{ stats.latest_documents }}
Under review:         {{ stats.under_review }} ({{ stats.under_review_percent }}%)
Overdue:              {{ stats.overdue }}

Status mix
{% for s in statuses %}  {{ s.label | pad: 40 }} {{ s.count }}
{% else %}  (none)
{% endfor %}
Overdue reviews
{% for r in overdue %}  {{ r.document_number }} rev {{ r.revision | default: "-" }} due {{ r.due_date }} ({{ r.days_overdue }}d) {{ r.title }}
{% else %}  (none)
{% endfor %}
Open reviews
{% for r in open_reviews %}  {{ r.index }}. {{ r.document_number }} rev {{ r.current_revision | default: "-" }} [{{ r.status }}]{% if r.due_date != "" %} due {{ r.due_date }}{% endif %} {{ r.title }}
{% else %}  (none)
{% endfor %}`

// Renderer renders digests with one compiled template.
type Renderer struct {
	tpl *liquid.Template
}

// NewRenderer compiles source, or DefaultTemplate when source is empty.
func NewRenderer(source string) (*Renderer, error) {
	if strings.TrimSpace(source) == "" {
		source = DefaultTemplate
	}

	engine := liquid.NewEngine()
	registerFilters(engine)

	tpl, err := engine.ParseString(source)
	if err != nil {
		return nil, fmt.Errorf("parse digest template: %w", err)
	}
	return &Renderer{tpl: tpl}, nil
}

func registerFilters(engine *liquid.Engine) {
	// Pad to a fixed width: {{ label | pad: 30 }}
	engine.RegisterFilter("pad", func(s string, width int) string {
		if n := len([]rune(s)); n < width {
			return s + strings.Repeat(" ", width-n)
		}
		return s
	})
}

// Meta identifies the dataset a digest was computed for. A zero
// GeneratedAt means now.
type Meta struct {
	DatasetID   string
	LoadedAt    time.Time
	GeneratedAt time.Time
}

// Render renders v. meta.GeneratedAt decides which reviews are overdue.
func (r *Renderer) Render(v *review.View, meta Meta) (string, error) {
	out, err := r.tpl.RenderString(Bindings(v, meta))
	if err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}
	return string(out), nil
}

// Bindings flattens a view into the template variables.
func Bindings(v *review.View, meta Meta) map[string]interface{} {
	now := meta.GeneratedAt
	if now.IsZero() {
		now = time.Now()
	}

	loadedAt := ""
	if !meta.LoadedAt.IsZero() {
		loadedAt = review.FormatDate(&meta.LoadedAt)
	}

	statuses := make([]map[string]interface{}, 0, len(v.StatusDataset.Labels))
	for i, label := range v.StatusDataset.Labels {
		statuses = append(statuses, map[string]interface{}{
			"label":  label,
			"bucket": v.StatusDataset.RawLabels[i],
			"count":  v.StatusDataset.Counts[i],
		})
	}

	overdue := make([]map[string]interface{}, 0)
	for _, rec := range review.Overdue(v.FilteredDocuments, now) {
		overdue = append(overdue, map[string]interface{}{
			"document_number": rec.DocumentNumber,
			"title":           rec.Title,
			"revision":        rec.Revision,
			"discipline":      rec.DisciplineLabel(),
			"due_date":        review.FormatDate(rec.DueDate),
			"days_overdue":    int(now.Sub(*rec.DueDate).Hours() / 24),
		})
	}

	open := make([]map[string]interface{}, 0, len(v.OpenReviews.Rows))
	for _, row := range v.OpenReviews.Rows {
		open = append(open, map[string]interface{}{
			"index":                 row.Index,
			"document_number":       row.DocumentNumber,
			"title":                 row.Title,
			"current_revision":      row.CurrentRevision,
			"discipline":            row.Discipline,
			"status":                row.Status,
			"correspondence_number": row.CorrespondenceNumber,
			"due_date":              review.FormatDate(row.DueDate),
		})
	}

	disciplines := make([]map[string]interface{}, 0, len(v.Summary.Rows))
	for _, row := range v.Summary.Rows {
		disciplines = append(disciplines, map[string]interface{}{
			"discipline": row.Discipline,
			"total":      row.Total,
			"issued":     row.Issued,
		})
	}

	return map[string]interface{}{
		"generated_at": review.FormatDate(&now),
		"dataset_id":   meta.DatasetID,
		"loaded_at":    loadedAt,
		"filters":      describeCriteria(v.Criteria),
		"stats": map[string]interface{}{
			"rows_loaded":          v.Stats.RowsLoaded,
			"filtered_rows":        v.Stats.FilteredRows,
			"filtered_documents":   v.Stats.FilteredDocuments,
			"latest_documents":     v.Stats.LatestDocuments,
			"under_review":         v.Stats.UnderReview,
			"under_review_percent": v.Stats.UnderReviewPercent,
			"overdue":              v.Stats.Overdue,
		},
		"statuses":     statuses,
		"overdue":      overdue,
		"open_reviews": open,
		"disciplines":  disciplines,
	}
}

func describeCriteria(c review.Criteria) []string {
	out := make([]string, 0)
	add := func(name string, values []string) {
		if len(values) > 0 {
			out = append(out, name+": "+strings.Join(values, ", "))
		}
	}
	add("Originating company", c.Origins)
	add("Recipient", c.Recipients)
	add("Discipline", c.Disciplines)
	add("Status", c.Statuses)
	add("Verdict", c.Verdicts)
	add("Issue reason", c.IssueReasons)
	add("Issue reason text", c.IssueReasonTexts)
	add("Revision", c.Revisions)
	add("Type", c.Types)
	if s := strings.TrimSpace(c.Search); s != "" {
		out = append(out, fmt.Sprintf("Search: %q", s))
	}
	return out
}
