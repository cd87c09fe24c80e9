package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ignite/correspondence-monitor/internal/cache"
	"github.com/ignite/correspondence-monitor/internal/digest"
	"github.com/ignite/correspondence-monitor/internal/ingest"
	"github.com/ignite/correspondence-monitor/internal/review"
	"github.com/ignite/correspondence-monitor/internal/service/dataset"
	"github.com/ignite/correspondence-monitor/internal/storage"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	datasets       *dataset.Service
	cache          *cache.ViewCache
	digest         *digest.Renderer
	s3Source       *ingest.S3Source
	maxUploadBytes int64
	now            func() time.Time
}

// NewHandlers creates a new Handlers instance
func NewHandlers(datasets *dataset.Service, maxUploadBytes int64) *Handlers {
	if maxUploadBytes <= 0 {
		maxUploadBytes = ingest.DefaultMaxFileBytes
	}
	return &Handlers{
		datasets:       datasets,
		maxUploadBytes: maxUploadBytes,
		now:            time.Now,
	}
}

// SetCache enables the Redis view cache
func (h *Handlers) SetCache(c *cache.ViewCache) {
	h.cache = c
}

// SetDigest sets the digest renderer
func (h *Handlers) SetDigest(r *digest.Renderer) {
	h.digest = r
}

// SetS3Source enables S3 ingestion
func (h *Handlers) SetS3Source(src *ingest.S3Source) {
	h.s3Source = src
}

// currentDataset returns the active dataset, or nil when none is loaded.
func (h *Handlers) currentDataset() (*storage.Dataset, error) {
	ds, err := h.datasets.Current()
	if errors.Is(err, storage.ErrNoDataset) {
		return nil, nil
	}
	return ds, err
}

// buildView computes, or fetches from the cache, the view of the current
// dataset for c. Without a dataset the view is computed over no records.
func (h *Handlers) buildView(r *http.Request, c review.Criteria) (*review.View, *storage.Dataset, error) {
	ds, err := h.currentDataset()
	if err != nil {
		return nil, nil, err
	}
	if ds == nil {
		return review.Build(nil, c, h.now()), nil, nil
	}

	compute := func() (*review.View, error) {
		return review.Build(ds.Records, c, h.now()), nil
	}
	if h.cache == nil {
		v, err := compute()
		return v, ds, err
	}
	key, err := cache.Key(ds.ID.String(), "view", c)
	if err != nil {
		return nil, nil, err
	}
	v, err := cache.GetOrCompute(r.Context(), h.cache, key, compute)
	return v, ds, err
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
