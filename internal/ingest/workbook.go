// Package ingest reads register exports into sheets of raw rows and turns a
// batch of files into one Record collection.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ignite/correspondence-monitor/internal/review"
)

// ErrUnsupportedFormat is returned for files that are neither CSV nor JSON.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// DefaultSheetName names the only sheet of a CSV file or a flat JSON array.
const DefaultSheetName = "Sheet1"

// Sheet is one named table of raw rows in source order.
type Sheet struct {
	Name string       `json:"name"`
	Rows []review.Row `json:"rows"`
}

// Workbook is the parsed content of one source file.
type Workbook struct {
	File   string  `json:"file"`
	Sheets []Sheet `json:"sheets"`
}

// RowCount counts rows across all sheets.
func (w *Workbook) RowCount() int {
	n := 0
	for _, s := range w.Sheets {
		n += len(s.Rows)
	}
	return n
}

// Format identifies a sheet encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// DetectFormat picks the reader from the file extension.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
}

// ReadWorkbook parses r according to the extension of name.
func ReadWorkbook(name string, r io.Reader) (*Workbook, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}
	var sheets []Sheet
	switch format {
	case FormatCSV:
		sheets, err = readCSV(r)
	case FormatJSON:
		sheets, err = readJSON(r)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return &Workbook{File: name, Sheets: sheets}, nil
}
