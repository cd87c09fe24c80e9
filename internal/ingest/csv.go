package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/ignite/correspondence-monitor/internal/review"
)

// readCSV reads a single-sheet CSV whose first record is the header. Header
// names are trimmed, unnamed columns are dropped and blank rows are skipped.
func readCSV(r io.Reader) ([]Sheet, error) {
	reader := csv.NewReader(stripBOM(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return []Sheet{{Name: DefaultSheetName, Rows: []review.Row{}}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([]review.Row, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}

		row := make(review.Row, len(header))
		blank := true
		for i, name := range header {
			if name == "" {
				continue
			}
			value := ""
			if i < len(record) {
				value = record[i]
			}
			if strings.TrimSpace(value) != "" {
				blank = false
			}
			if _, dup := row[name]; !dup {
				row[name] = value
			}
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return []Sheet{{Name: DefaultSheetName, Rows: rows}}, nil
}

// stripBOM wraps a reader to strip a UTF-8 BOM if present.
func stripBOM(r io.Reader) io.Reader {
	buf := make([]byte, 3)
	n, err := io.ReadFull(r, buf)
	if err != nil || n < 3 {
		return io.MultiReader(strings.NewReader(string(buf[:n])), r)
	}
	if buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF {
		return r
	}
	return io.MultiReader(strings.NewReader(string(buf[:n])), r)
}
