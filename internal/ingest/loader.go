package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/correspondence-monitor/internal/pkg/logger"
	"github.com/ignite/correspondence-monitor/internal/review"
)

// File processing outcomes.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// DefaultMaxFileBytes caps one source file when no limit is configured.
const DefaultMaxFileBytes int64 = 32 << 20

var errFileTooLarge = errors.New("file exceeds size limit")

// FileResult reports how one file of a batch went.
type FileResult struct {
	File       string    `json:"file"`
	Status     string    `json:"status"`
	Sheets     int       `json:"sheets"`
	Rows       int       `json:"rows"`
	Records    int       `json:"records"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Result is the outcome of loading one batch.
type Result struct {
	BatchID    uuid.UUID       `json:"batch_id"`
	Records    []review.Record `json:"-"`
	Files      []FileResult    `json:"files"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
}

// Failed counts files that could not be read.
func (r *Result) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Status == StatusFailed {
			n++
		}
	}
	return n
}

// Completed counts files that contributed records.
func (r *Result) Completed() int {
	n := 0
	for _, f := range r.Files {
		if f.Status == StatusCompleted {
			n++
		}
	}
	return n
}

// Loader reads every file of a source in order and normalizes the rows.
// A file that cannot be read is reported and skipped; the batch continues.
type Loader struct {
	maxFileBytes int64
	now          func() time.Time
}

// NewLoader creates a loader. A non-positive limit uses DefaultMaxFileBytes.
func NewLoader(maxFileBytes int64) *Loader {
	if maxFileBytes <= 0 {
		maxFileBytes = DefaultMaxFileBytes
	}
	return &Loader{maxFileBytes: maxFileBytes, now: time.Now}
}

// FileHook runs after each file of a batch. An error aborts the batch.
type FileHook func(ctx context.Context, fr FileResult) error

// Load processes the source sequentially. The error is non-nil only when the
// source cannot be listed, ctx is cancelled or a hook fails.
func (l *Loader) Load(ctx context.Context, src Source, hooks ...FileHook) (*Result, error) {
	items, err := src.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source: %w", err)
	}

	res := &Result{
		BatchID:   uuid.New(),
		Records:   make([]review.Record, 0),
		Files:     make([]FileResult, 0, len(items)),
		StartedAt: l.now(),
	}
	log.Printf("[ingest] batch %s: %d file(s)", res.BatchID, len(items))
	flog := logger.With("batch_id", res.BatchID.String())

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fr, records := l.loadItem(ctx, item)
		res.Files = append(res.Files, fr)
		res.Records = append(res.Records, records...)

		switch fr.Status {
		case StatusCompleted:
			log.Printf("[ingest] %s: %d sheet(s), %d row(s), %d record(s)", fr.File, fr.Sheets, fr.Rows, fr.Records)
		default:
			flog.With("file", fr.File).Warn("ingest file not loaded", "status", fr.Status, "error", fr.Error)
		}
		for _, hook := range hooks {
			if err := hook(ctx, fr); err != nil {
				return nil, fmt.Errorf("after %s: %w", fr.File, err)
			}
		}
	}

	res.FinishedAt = l.now()
	log.Printf("[ingest] batch %s done: %d record(s), %d failed file(s)", res.BatchID, len(res.Records), res.Failed())
	return res, nil
}

func (l *Loader) loadItem(ctx context.Context, item Item) (FileResult, []review.Record) {
	fr := FileResult{File: item.Name, StartedAt: l.now()}
	finish := func(status string, err error) {
		fr.Status = status
		if err != nil {
			fr.Error = err.Error()
		}
		fr.FinishedAt = l.now()
		fr.DurationMS = fr.FinishedAt.Sub(fr.StartedAt).Milliseconds()
	}

	if _, err := DetectFormat(item.Name); err != nil {
		finish(StatusSkipped, err)
		return fr, nil
	}
	if item.Size > l.maxFileBytes {
		finish(StatusFailed, fmt.Errorf("%s: %w", item.Name, errFileTooLarge))
		return fr, nil
	}

	wb, err := l.readItem(ctx, item)
	if err != nil {
		finish(StatusFailed, err)
		return fr, nil
	}

	records := make([]review.Record, 0, wb.RowCount())
	for _, sheet := range wb.Sheets {
		records = append(records, review.NormalizeSheet(item.Name, sheet.Name, sheet.Rows)...)
	}
	fr.Sheets = len(wb.Sheets)
	fr.Rows = wb.RowCount()
	fr.Records = len(records)
	finish(StatusCompleted, nil)
	return fr, records
}

func (l *Loader) readItem(ctx context.Context, item Item) (*Workbook, error) {
	rc, err := item.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", item.Name, err)
	}
	defer rc.Close()

	limited := io.LimitReader(rc, l.maxFileBytes+1)
	counter := &countingReader{r: limited}
	wb, err := ReadWorkbook(item.Name, counter)
	if counter.n > l.maxFileBytes {
		return nil, fmt.Errorf("%s: %w", item.Name, errFileTooLarge)
	}
	if err != nil {
		return nil, err
	}
	return wb, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
