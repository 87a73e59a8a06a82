package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset defines tabular export content. Rows are keyed by Keys when set,
// otherwise by Headers.
type Dataset struct {
	Title   string
	Headers []string
	Keys    []string
	Rows    []map[string]string
}

func (d Dataset) columnKeys() ([]string, error) {
	if len(d.Keys) == 0 {
		return d.Headers, nil
	}
	if len(d.Keys) != len(d.Headers) {
		return nil, fmt.Errorf("dataset has %d keys for %d headers", len(d.Keys), len(d.Headers))
	}
	return d.Keys, nil
}

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct {
	comma rune
}

// NewCSVExporter builds a CSV exporter using comma as the field separator.
// Zero means ','.
func NewCSVExporter(comma rune) *CSVExporter {
	if comma == 0 {
		comma = ','
	}
	return &CSVExporter{comma: comma}
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	keys, err := data.columnKeys()
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	writer.Comma = e.comma
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		record := make([]string, len(keys))
		for i, key := range keys {
			record[i] = row[key]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
