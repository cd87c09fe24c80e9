package dataset

import (
	"context"

	"github.com/ignite/correspondence-monitor/internal/domain"
)

// Repository defines the data access contract for the import log.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Record appends the file entries of one batch.
	Record(ctx context.Context, logs []domain.ImportLog) error

	// List returns entries matching the filter, newest first, and the total
	// number of matching entries.
	List(ctx context.Context, filter ListFilter) ([]domain.ImportLog, int, error)

	// Summary aggregates the whole log.
	Summary(ctx context.Context) (*domain.ImportSummary, error)
}

// ListFilter controls pagination and filtering for import log lists.
type ListFilter struct {
	Status  string
	BatchID string
	Limit   int
	Offset  int
}
