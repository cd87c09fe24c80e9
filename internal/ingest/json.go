package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ignite/correspondence-monitor/internal/review"
)

type jsonWorkbook struct {
	Sheets []Sheet `json:"sheets"`
}

// readJSON accepts either a flat array of row objects (one sheet) or an
// object {"sheets": [{"name": ..., "rows": [...]}]}. Numbers are kept as
// json.Number so date serials survive exactly.
func readJSON(r io.Reader) ([]Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []Sheet{{Name: DefaultSheetName, Rows: []review.Row{}}}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	if trimmed[0] == '[' {
		var rows []review.Row
		if err := dec.Decode(&rows); err != nil {
			return nil, fmt.Errorf("decode rows: %w", err)
		}
		return []Sheet{{Name: DefaultSheetName, Rows: compactRows(rows)}}, nil
	}

	var wb jsonWorkbook
	if err := dec.Decode(&wb); err != nil {
		return nil, fmt.Errorf("decode workbook: %w", err)
	}
	for i := range wb.Sheets {
		if wb.Sheets[i].Name == "" {
			wb.Sheets[i].Name = fmt.Sprintf("Sheet%d", i+1)
		}
		wb.Sheets[i].Rows = compactRows(wb.Sheets[i].Rows)
	}
	return wb.Sheets, nil
}

// compactRows drops null and all-blank rows.
func compactRows(rows []review.Row) []review.Row {
	out := make([]review.Row, 0, len(rows))
	for _, row := range rows {
		for _, v := range row {
			if review.Clean(v) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
