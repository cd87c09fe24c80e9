package api

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/correspondence-monitor/internal/cache"
	"github.com/ignite/correspondence-monitor/internal/digest"
	"github.com/ignite/correspondence-monitor/internal/export"
	"github.com/ignite/correspondence-monitor/internal/pkg/httputil"
	"github.com/ignite/correspondence-monitor/internal/review"
)

// GetOptions returns the filter vocabularies of the current dataset.
//
//	GET /api/options
func (h *Handlers) GetOptions(w http.ResponseWriter, r *http.Request) {
	ds, err := h.currentDataset()
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if ds == nil {
		httputil.OK(w, review.BuildFilterOptions(nil))
		return
	}

	key, err := cache.Key(ds.ID.String(), "options", nil)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	opts, err := cache.GetOrCompute(r.Context(), h.cache, key, func() (review.FilterOptions, error) {
		return review.BuildFilterOptions(ds.Records), nil
	})
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, opts)
}

// GetView returns every view-model for the query criteria.
//
//	GET /api/view?origin=&recipient=&discipline=&status=&verdict=&issue=&issue_text=&revision=&type=&search=
func (h *Handlers) GetView(w http.ResponseWriter, r *http.Request) {
	v, ds, err := h.buildView(r, parseCriteria(r))
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	resp := map[string]interface{}{"view": v}
	if ds != nil {
		resp["dataset_id"] = ds.ID.String()
		resp["loaded_at"] = ds.LoadedAt
	}
	httputil.OK(w, resp)
}

// GetExport returns the export bundle for the query criteria.
//
//	GET /api/export
func (h *Handlers) GetExport(w http.ResponseWriter, r *http.Request) {
	v, _, err := h.buildView(r, parseCriteria(r))
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, export.BuildBundle(v))
}

// GetExportSheet downloads one export sheet as CSV. The sheet is named
// exactly or by its slug ("status-pivot"); a ".csv" suffix is optional.
//
//	GET /api/export/{sheet}
func (h *Handlers) GetExportSheet(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(chi.URLParam(r, "sheet"), ".csv")

	v, _, err := h.buildView(r, parseCriteria(r))
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	bundle := export.BuildBundle(v)
	sheet, ok := findSheet(bundle, name)
	if !ok {
		httputil.NotFound(w, "unknown sheet "+name)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, sheet); err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.Attachment(w, export.WorkbookName+"_"+slug(sheet.Name)+".csv", "text/csv; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func findSheet(b *export.Bundle, name string) (export.Sheet, bool) {
	if s, ok := b.Sheet(name); ok {
		return s, true
	}
	want := slug(name)
	for _, s := range b.Sheets {
		if slug(s.Name) == want {
			return s, true
		}
	}
	return export.Sheet{}, false
}

func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

// GetDigest renders the plain-text digest for the query criteria.
//
//	GET /api/digest
func (h *Handlers) GetDigest(w http.ResponseWriter, r *http.Request) {
	if h.digest == nil {
		httputil.Error(w, http.StatusNotImplemented, "digest is not configured")
		return
	}
	ds, err := h.currentDataset()
	if err != nil {
		httputil.InternalError(w, err)
		return
	}

	now := h.now()
	meta := digest.Meta{GeneratedAt: now}
	var records []review.Record
	if ds != nil {
		records = ds.Records
		meta.DatasetID = ds.ID.String()
		meta.LoadedAt = ds.LoadedAt
	}

	// The digest lists overdue records, which cached views do not carry.
	out, err := h.digest.Render(review.Build(records, parseCriteria(r), now), meta)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(out))
}
