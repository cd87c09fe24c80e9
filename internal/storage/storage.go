package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/correspondence-monitor/internal/config"
	"github.com/ignite/correspondence-monitor/internal/ingest"
	"github.com/ignite/correspondence-monitor/internal/review"
)

// ErrNoDataset is returned before any batch has been loaded.
var ErrNoDataset = errors.New("no dataset loaded")

const (
	datasetsCategory = "datasets"
	currentKey       = "current"
	historyKey       = "history"
	maxHistory       = 100
)

// Dataset is one loaded batch of records. It is immutable once stored.
type Dataset struct {
	ID       uuid.UUID           `json:"id"`
	LoadedAt time.Time           `json:"loaded_at"`
	Files    []ingest.FileResult `json:"files"`
	Records  []review.Record     `json:"records"`
}

// NewDataset wraps a loader result.
func NewDataset(res *ingest.Result) *Dataset {
	return &Dataset{
		ID:       res.BatchID,
		LoadedAt: res.FinishedAt,
		Files:    res.Files,
		Records:  res.Records,
	}
}

// Info returns the dataset metadata without records.
func (d *Dataset) Info() DatasetInfo {
	return DatasetInfo{
		ID:          d.ID,
		LoadedAt:    d.LoadedAt,
		Files:       d.Files,
		RecordCount: len(d.Records),
	}
}

// DatasetInfo describes a stored dataset.
type DatasetInfo struct {
	ID          uuid.UUID           `json:"id"`
	LoadedAt    time.Time           `json:"loaded_at"`
	Files       []ingest.FileResult `json:"files"`
	RecordCount int                 `json:"record_count"`
}

// Storage holds the current dataset in memory and persists every loaded
// dataset to local disk or to S3 with a DynamoDB history index.
type Storage struct {
	config config.StorageConfig
	mu     sync.RWMutex

	// AWS storage (optional)
	aws *AWSStorage

	current *Dataset
	history []DatasetInfo
}

// New creates a new Storage instance and restores the latest dataset.
func New(cfg config.StorageConfig) (*Storage, error) {
	ctx := context.Background()

	switch cfg.Type {
	case "aws":
		awsStorage, err := NewAWSStorage(ctx, cfg.DynamoDBTable, cfg.S3Bucket, cfg.S3Prefix, cfg.AWSRegion, cfg.GetAWSProfile())
		if err != nil {
			return nil, fmt.Errorf("initializing AWS storage: %w", err)
		}
		return NewWithAWS(ctx, cfg, awsStorage), nil

	case "memory":
		return &Storage{config: cfg, history: make([]DatasetInfo, 0)}, nil

	default:
		if err := os.MkdirAll(cfg.LocalPath, 0755); err != nil {
			return nil, fmt.Errorf("creating storage directory: %w", err)
		}
		s := &Storage{config: cfg, history: make([]DatasetInfo, 0)}
		if err := s.loadFromDisk(); err != nil {
			log.Printf("[storage] could not load existing dataset: %v", err)
		}
		return s, nil
	}
}

// NewWithAWS creates a storage backed by an existing AWS storage and
// restores the most recent dataset from it.
func NewWithAWS(ctx context.Context, cfg config.StorageConfig, awsStorage *AWSStorage) *Storage {
	s := &Storage{config: cfg, aws: awsStorage, history: make([]DatasetInfo, 0)}

	if history, err := awsStorage.ListDatasets(ctx, maxHistory); err == nil {
		s.history = history
	} else {
		log.Printf("[storage] could not list dataset history: %v", err)
	}
	if len(s.history) > 0 {
		ds, err := awsStorage.GetDataset(ctx, s.history[0].ID)
		if err != nil {
			log.Printf("[storage] could not restore dataset %s: %v", s.history[0].ID, err)
		} else {
			s.current = ds
		}
	}
	return s
}

// Current returns the active dataset.
func (s *Storage) Current() (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, ErrNoDataset
	}
	return s.current, nil
}

// Replace persists ds and makes it the active dataset. The previous dataset
// stays active if persisting fails.
func (s *Storage) Replace(ctx context.Context, ds *Dataset) error {
	if ds == nil {
		return errors.New("nil dataset")
	}
	if ds.Records == nil {
		ds.Records = make([]review.Record, 0)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	info := ds.Info()
	switch {
	case s.aws != nil:
		if err := s.aws.SaveDataset(ctx, ds); err != nil {
			return err
		}
	case s.config.Type == "memory":
	default:
		if err := s.saveToFile(datasetsCategory, ds.ID.String(), ds); err != nil {
			return fmt.Errorf("saving dataset: %w", err)
		}
		if err := s.saveToFile(datasetsCategory, currentKey, info); err != nil {
			return fmt.Errorf("saving current pointer: %w", err)
		}
	}

	s.current = ds
	s.history = append([]DatasetInfo{info}, s.history...)
	if len(s.history) > maxHistory {
		s.history = s.history[:maxHistory]
	}
	if s.aws == nil && s.config.Type != "memory" {
		if err := s.saveToFile(datasetsCategory, historyKey, s.history); err != nil {
			log.Printf("[storage] could not save dataset history: %v", err)
		}
	}

	log.Printf("[storage] dataset %s active: %d record(s) from %d file(s)", ds.ID, len(ds.Records), len(ds.Files))
	return nil
}

// History lists stored datasets, newest first.
func (s *Storage) History(limit int) []DatasetInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.history) {
		limit = len(s.history)
	}
	out := make([]DatasetInfo, limit)
	copy(out, s.history[:limit])
	return out
}

// GetCacheStats returns statistics about the in-memory state.
func (s *Storage) GetCacheStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"type":           s.config.Type,
		"history_count":  len(s.history),
		"dataset_loaded": s.current != nil,
	}
	if s.current != nil {
		stats["dataset_id"] = s.current.ID.String()
		stats["records"] = len(s.current.Records)
		stats["loaded_at"] = s.current.LoadedAt
	}
	return stats
}

// saveToFile saves data to a JSON file
func (s *Storage) saveToFile(category, key string, data interface{}) error {
	dir := filepath.Join(s.config.LocalPath, category)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Sanitize key for filename
	safeKey := filepath.Base(key)
	path := filepath.Join(dir, safeKey+".json")
	tmp := path + ".tmp"

	file, err := os.Create(tmp)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		file.Close()
		os.Remove(tmp)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// loadFromFile loads data from a JSON file
func (s *Storage) loadFromFile(category, key string, data interface{}) error {
	safeKey := filepath.Base(key)
	path := filepath.Join(s.config.LocalPath, category, safeKey+".json")

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(data)
}

// loadFromDisk restores the current dataset and the history index.
func (s *Storage) loadFromDisk() error {
	var history []DatasetInfo
	if err := s.loadFromFile(datasetsCategory, historyKey, &history); err == nil {
		s.history = history
	}

	var info DatasetInfo
	if err := s.loadFromFile(datasetsCategory, currentKey, &info); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	var ds Dataset
	if err := s.loadFromFile(datasetsCategory, info.ID.String(), &ds); err != nil {
		return fmt.Errorf("loading dataset %s: %w", info.ID, err)
	}
	if ds.Records == nil {
		ds.Records = make([]review.Record, 0)
	}
	s.current = &ds
	log.Printf("[storage] restored dataset %s (%d records)", ds.ID, len(ds.Records))
	return nil
}
