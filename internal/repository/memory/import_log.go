// Package memory provides in-process repository implementations for
// deployments without a database.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ignite/correspondence-monitor/internal/domain"
	"github.com/ignite/correspondence-monitor/internal/service/dataset"
)

// ImportLogRepo implements dataset.Repository in memory.
type ImportLogRepo struct {
	mu   sync.RWMutex
	logs []domain.ImportLog
}

// NewImportLogRepo creates an empty in-memory import log.
func NewImportLogRepo() *ImportLogRepo { return &ImportLogRepo{} }

func (r *ImportLogRepo) Record(_ context.Context, logs []domain.ImportLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, logs...)
	return nil
}

func (r *ImportLogRepo) List(_ context.Context, f dataset.ListFilter) ([]domain.ImportLog, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.ImportLog, 0)
	for _, l := range r.logs {
		if f.Status != "" && string(l.Status) != f.Status {
			continue
		}
		if f.BatchID != "" && l.BatchID != f.BatchID {
			continue
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	total := len(out)
	if f.Offset >= len(out) {
		return []domain.ImportLog{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > len(out) || f.Limit <= 0 {
		end = len(out)
	}
	return out[f.Offset:end], total, nil
}

func (r *ImportLogRepo) Summary(_ context.Context) (*domain.ImportSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sum := &domain.ImportSummary{}
	batches := make(map[string]bool)
	for _, l := range r.logs {
		batches[l.BatchID] = true
		sum.Files++
		sum.Records += l.Records
		switch l.Status {
		case domain.ImportCompleted:
			sum.Completed++
		case domain.ImportFailed:
			sum.Failed++
		case domain.ImportSkipped:
			sum.Skipped++
		}
		if sum.LastImportAt == nil || l.CreatedAt.After(*sum.LastImportAt) {
			t := l.CreatedAt
			sum.LastImportAt = &t
		}
	}
	sum.Batches = len(batches)
	return sum, nil
}
