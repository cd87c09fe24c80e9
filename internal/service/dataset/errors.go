package dataset

import "errors"

// Sentinel errors for the dataset service layer.
var (
	ErrBusy          = errors.New("another ingestion is in progress")
	ErrNoFiles       = errors.New("no files to ingest")
	ErrNothingLoaded = errors.New("no file of the batch could be loaded")
	ErrInvalidStatus = errors.New("unknown import status")
)
