package domain

import "time"

// ImportStatus is the outcome of ingesting one file.
type ImportStatus string

const (
	ImportCompleted ImportStatus = "completed"
	ImportFailed    ImportStatus = "failed"
	ImportSkipped   ImportStatus = "skipped"
)

// Valid reports whether s is a known status.
func (s ImportStatus) Valid() bool {
	switch s {
	case ImportCompleted, ImportFailed, ImportSkipped:
		return true
	}
	return false
}

// ImportSource names where a batch came from.
type ImportSource string

const (
	SourceUpload ImportSource = "upload"
	SourceS3     ImportSource = "s3"
	SourceLocal  ImportSource = "local"
)

// ImportLog is one file of an ingestion batch.
type ImportLog struct {
	ID         string       `json:"id" db:"id"`
	BatchID    string       `json:"batch_id" db:"batch_id"`
	DatasetID  *string      `json:"dataset_id,omitempty" db:"dataset_id"`
	Source     ImportSource `json:"source" db:"source"`
	FileName   string       `json:"file_name" db:"file_name"`
	Status     ImportStatus `json:"status" db:"status"`
	Sheets     int          `json:"sheets" db:"sheets"`
	Rows       int          `json:"rows" db:"rows"`
	Records    int          `json:"records" db:"records"`
	Error      string       `json:"error,omitempty" db:"error"`
	DurationMS int64        `json:"duration_ms" db:"duration_ms"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
}

// ImportSummary aggregates the import log.
type ImportSummary struct {
	Batches      int        `json:"batches"`
	Files        int        `json:"files"`
	Completed    int        `json:"completed"`
	Failed       int        `json:"failed"`
	Skipped      int        `json:"skipped"`
	Records      int        `json:"records"`
	LastImportAt *time.Time `json:"last_import_at,omitempty"`
}
