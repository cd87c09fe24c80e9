package dataset

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/correspondence-monitor/internal/domain"
	"github.com/ignite/correspondence-monitor/internal/events"
	"github.com/ignite/correspondence-monitor/internal/ingest"
	"github.com/ignite/correspondence-monitor/internal/pkg/distlock"
	"github.com/ignite/correspondence-monitor/internal/review"
	"github.com/ignite/correspondence-monitor/internal/storage"
)

// Store holds the current dataset.
type Store interface {
	Current() (*storage.Dataset, error)
	Replace(ctx context.Context, ds *storage.Dataset) error
	History(limit int) []storage.DatasetInfo
}

// Publisher announces newly loaded datasets.
type Publisher interface {
	PublishDatasetLoaded(ctx context.Context, evt events.DatasetLoaded) error
}

// Purger drops cached views of a dataset.
type Purger interface {
	Purge(ctx context.Context, datasetID string) (int, error)
}

// LockTTL is the lease of the ingest lock. It is renewed after every file.
const LockTTL = 10 * time.Minute

// Service coordinates ingestion. Only one ingestion runs at a time across
// all instances sharing the lock backend.
type Service struct {
	store     Store
	loader    *ingest.Loader
	repo      Repository
	newLock   func() distlock.DistLock
	publisher Publisher
	purger    Purger
	now       func() time.Time
}

// NewService creates a dataset service. newLock returns a fresh lock
// instance per ingestion. repo may be nil to disable the import log.
func NewService(store Store, loader *ingest.Loader, repo Repository, newLock func() distlock.DistLock) *Service {
	return &Service{
		store:   store,
		loader:  loader,
		repo:    repo,
		newLock: newLock,
		now:     time.Now,
	}
}

// WithPublisher enables dataset-loaded events.
func (s *Service) WithPublisher(p Publisher) *Service {
	s.publisher = p
	return s
}

// WithPurger drops the previous dataset's cached views after a replace.
func (s *Service) WithPurger(p Purger) *Service {
	s.purger = p
	return s
}

// IngestResult summarizes one ingestion.
type IngestResult struct {
	DatasetID string              `json:"dataset_id,omitempty"`
	BatchID   string              `json:"batch_id"`
	Source    domain.ImportSource `json:"source"`
	Records   int                 `json:"records"`
	Files     []ingest.FileResult `json:"files"`
	Stats     *review.Stats       `json:"stats,omitempty"`
}

// Ingest loads src and, when at least one file was read, makes the result
// the current dataset. Files that fail are reported in the result. When no
// file could be read the current dataset is kept and ErrNothingLoaded is
// returned together with the result.
func (s *Service) Ingest(ctx context.Context, source domain.ImportSource, src ingest.Source) (*IngestResult, error) {
	var out *IngestResult
	lock := s.newLock()
	renew := func(ctx context.Context, _ ingest.FileResult) error {
		if err := distlock.Renew(ctx, lock, LockTTL); err != nil {
			return fmt.Errorf("renew ingest lock: %w", err)
		}
		return nil
	}
	err := distlock.WithLock(ctx, lock, func(ctx context.Context) error {
		var err error
		out, err = s.ingest(ctx, source, src, renew)
		return err
	})
	if errors.Is(err, distlock.ErrNotAcquired) {
		return nil, ErrBusy
	}
	return out, err
}

func (s *Service) ingest(ctx context.Context, source domain.ImportSource, src ingest.Source, hooks ...ingest.FileHook) (*IngestResult, error) {
	res, err := s.loader.Load(ctx, src, hooks...)
	if err != nil {
		return nil, fmt.Errorf("load batch: %w", err)
	}

	out := &IngestResult{
		BatchID: res.BatchID.String(),
		Source:  source,
		Files:   res.Files,
	}
	if len(res.Files) == 0 {
		return out, ErrNoFiles
	}
	if res.Completed() == 0 {
		s.recordImports(ctx, source, res, nil)
		return out, ErrNothingLoaded
	}

	var previous string
	if cur, err := s.store.Current(); err == nil {
		previous = cur.ID.String()
	}

	ds := storage.NewDataset(res)
	if err := s.store.Replace(ctx, ds); err != nil {
		s.recordImports(ctx, source, res, nil)
		return nil, fmt.Errorf("replace dataset: %w", err)
	}

	datasetID := ds.ID.String()
	out.DatasetID = datasetID
	out.Records = len(ds.Records)

	view := review.Build(ds.Records, review.Criteria{}, s.now())
	out.Stats = &view.Stats

	s.recordImports(ctx, source, res, &datasetID)
	s.announce(ctx, out, res.Failed())

	if s.purger != nil && previous != "" && previous != datasetID {
		if n, err := s.purger.Purge(ctx, previous); err != nil {
			log.Printf("[dataset.Service] purge views of %s: %v", previous, err)
		} else if n > 0 {
			log.Printf("[dataset.Service] purged %d cached view(s) of %s", n, previous)
		}
	}

	log.Printf("[dataset.Service] Dataset %s: %d records from %d file(s) (%s)", datasetID, out.Records, len(res.Files), source)
	return out, nil
}

func (s *Service) recordImports(ctx context.Context, source domain.ImportSource, res *ingest.Result, datasetID *string) {
	if s.repo == nil {
		return
	}
	logs := make([]domain.ImportLog, 0, len(res.Files))
	for _, f := range res.Files {
		logs = append(logs, domain.ImportLog{
			ID:         uuid.New().String(),
			BatchID:    res.BatchID.String(),
			DatasetID:  datasetID,
			Source:     source,
			FileName:   f.File,
			Status:     domain.ImportStatus(f.Status),
			Sheets:     f.Sheets,
			Rows:       f.Rows,
			Records:    f.Records,
			Error:      f.Error,
			DurationMS: f.DurationMS,
			CreatedAt:  f.FinishedAt,
		})
	}
	if err := s.repo.Record(ctx, logs); err != nil {
		log.Printf("[dataset.Service] record import log for batch %s: %v", res.BatchID, err)
	}
}

func (s *Service) announce(ctx context.Context, out *IngestResult, failed int) {
	if s.publisher == nil {
		return
	}
	evt := events.DatasetLoaded{
		EventType:   events.EventDatasetLoaded,
		DatasetID:   out.DatasetID,
		BatchID:     out.BatchID,
		Source:      string(out.Source),
		Records:     out.Records,
		Files:       len(out.Files),
		FailedFiles: failed,
		Timestamp:   s.now().UTC(),
	}
	if out.Stats != nil {
		evt.LatestDocs = out.Stats.LatestDocuments
		evt.UnderReview = out.Stats.UnderReview
		evt.Overdue = out.Stats.Overdue
	}
	if err := s.publisher.PublishDatasetLoaded(ctx, evt); err != nil {
		log.Printf("[dataset.Service] publish dataset %s: %v", out.DatasetID, err)
	}
}

// Current returns the active dataset.
func (s *Service) Current() (*storage.Dataset, error) {
	return s.store.Current()
}

// History lists stored datasets, newest first.
func (s *Service) History(limit int) []storage.DatasetInfo {
	return s.store.History(limit)
}

// Imports lists the import log. It returns an empty page when the import
// log is disabled.
func (s *Service) Imports(ctx context.Context, f ListFilter) ([]domain.ImportLog, int, error) {
	if s.repo == nil {
		return []domain.ImportLog{}, 0, nil
	}
	if f.Status != "" && !domain.ImportStatus(f.Status).Valid() {
		return nil, 0, fmt.Errorf("%w: %q", ErrInvalidStatus, f.Status)
	}
	return s.repo.List(ctx, f)
}

// ImportSummary aggregates the import log.
func (s *Service) ImportSummary(ctx context.Context) (*domain.ImportSummary, error) {
	if s.repo == nil {
		return &domain.ImportSummary{}, nil
	}
	return s.repo.Summary(ctx)
}
