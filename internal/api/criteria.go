package api

import (
	"net/http"
	"strings"

	"github.com/ignite/correspondence-monitor/internal/review"
)

// criteriaParams maps query parameters to filter dimensions. Every parameter
// may repeat; empty values are ignored.
var criteriaParams = map[string]func(c *review.Criteria) *[]string{
	"origin":     func(c *review.Criteria) *[]string { return &c.Origins },
	"recipient":  func(c *review.Criteria) *[]string { return &c.Recipients },
	"discipline": func(c *review.Criteria) *[]string { return &c.Disciplines },
	"status":     func(c *review.Criteria) *[]string { return &c.Statuses },
	"verdict":    func(c *review.Criteria) *[]string { return &c.Verdicts },
	"issue":      func(c *review.Criteria) *[]string { return &c.IssueReasons },
	"issue_text": func(c *review.Criteria) *[]string { return &c.IssueReasonTexts },
	"revision":   func(c *review.Criteria) *[]string { return &c.Revisions },
	"type":       func(c *review.Criteria) *[]string { return &c.Types },
}

// parseCriteria reads filter criteria from the query string.
func parseCriteria(r *http.Request) review.Criteria {
	q := r.URL.Query()
	var c review.Criteria
	for name, field := range criteriaParams {
		for _, v := range q[name] {
			if strings.TrimSpace(v) == "" {
				continue
			}
			dst := field(&c)
			*dst = append(*dst, v)
		}
	}
	c.Search = strings.TrimSpace(q.Get("search"))
	return c
}
