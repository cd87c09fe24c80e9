package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ignite/correspondence-monitor/internal/domain"
	"github.com/ignite/correspondence-monitor/internal/ingest"
	"github.com/ignite/correspondence-monitor/internal/pkg/httputil"
	"github.com/ignite/correspondence-monitor/internal/service/dataset"
)

// multipart form fields accepted for uploaded files
var uploadFields = []string{"files", "file"}

// IngestUpload loads the uploaded sheet files as the new dataset.
//
//	POST /api/ingest (multipart/form-data, fields "files" or "file")
func (h *Handlers) IngestUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.Error(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", h.maxUploadBytes))
			return
		}
		httputil.BadRequest(w, "expected a multipart upload")
		return
	}
	defer r.MultipartForm.RemoveAll()

	uploads := make(ingest.UploadSource, 0)
	for _, field := range uploadFields {
		for _, fh := range r.MultipartForm.File[field] {
			f, err := fh.Open()
			if err != nil {
				httputil.InternalError(w, fmt.Errorf("open upload %s: %w", fh.Filename, err))
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				httputil.InternalError(w, fmt.Errorf("read upload %s: %w", fh.Filename, err))
				return
			}
			uploads = append(uploads, ingest.Upload{Name: fh.Filename, Data: data})
		}
	}

	h.ingest(w, r, domain.SourceUpload, uploads)
}

// IngestS3 loads every sheet file under the configured S3 prefix, or under
// the "prefix" query parameter when given.
//
//	POST /api/ingest/s3
func (h *Handlers) IngestS3(w http.ResponseWriter, r *http.Request) {
	if h.s3Source == nil {
		httputil.Error(w, http.StatusNotImplemented, "S3 ingestion is not configured")
		return
	}
	src := h.s3Source
	if prefix := r.URL.Query().Get("prefix"); prefix != "" {
		src = src.WithPrefix(prefix)
	}
	h.ingest(w, r, domain.SourceS3, src)
}

func (h *Handlers) ingest(w http.ResponseWriter, r *http.Request, source domain.ImportSource, src ingest.Source) {
	res, err := h.datasets.Ingest(r.Context(), source, src)
	switch {
	case err == nil:
		httputil.Created(w, res)
	case errors.Is(err, dataset.ErrBusy):
		httputil.Conflict(w, err.Error())
	case errors.Is(err, dataset.ErrNoFiles):
		httputil.BadRequest(w, err.Error())
	case errors.Is(err, dataset.ErrNothingLoaded):
		httputil.JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  err.Error(),
			"result": res,
		})
	default:
		httputil.InternalError(w, err)
	}
}

// GetDataset returns the metadata of the current dataset.
//
//	GET /api/dataset
func (h *Handlers) GetDataset(w http.ResponseWriter, r *http.Request) {
	ds, err := h.currentDataset()
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if ds == nil {
		httputil.NotFound(w, "no dataset loaded")
		return
	}
	httputil.OK(w, ds.Info())
}

// ListDatasets returns the dataset history, newest first.
//
//	GET /api/datasets?limit=
func (h *Handlers) ListDatasets(w http.ResponseWriter, r *http.Request) {
	limit := httputil.QueryInt(r, "limit", 20)
	httputil.OK(w, map[string]interface{}{
		"datasets": h.datasets.History(limit),
	})
}

// ListImports returns the import log, newest first.
//
//	GET /api/imports?page=&limit=&status=&batch=
func (h *Handlers) ListImports(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r, 50, 500)
	logs, total, err := h.datasets.Imports(r.Context(), dataset.ListFilter{
		Status:  r.URL.Query().Get("status"),
		BatchID: r.URL.Query().Get("batch"),
		Limit:   p.Limit,
		Offset:  p.Offset,
	})
	if errors.Is(err, dataset.ErrInvalidStatus) {
		httputil.BadRequest(w, err.Error())
		return
	}
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, NewPaginatedResponse(logs, p, int64(total)))
}

// GetImportSummary aggregates the import log.
//
//	GET /api/imports/summary
func (h *Handlers) GetImportSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.datasets.ImportSummary(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, sum)
}
