// Package dataset reads sentence-similarity pairs from tab-separated files.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

var ErrMissingColumn = errors.New("missing column")

// TSVReader reads a header-first tab-separated file into header-keyed records.
type TSVReader struct {
	reader io.Reader
}

func NewTSVReader(reader io.Reader) *TSVReader {
	return &TSVReader{
		reader: reader,
	}
}

// Read returns the header row and every record. Rows shorter than the header
// are returned with the missing fields absent from the map.
func (tr *TSVReader) Read() ([]string, []map[string]string, error) {
	r := csv.NewReader(tr.reader)
	r.Comma = '\t'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	headers, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("read header: empty file")
		}
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	var records []map[string]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row: %w", err)
		}

		record := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				record[h] = row[i]
			}
		}
		records = append(records, record)
	}

	return headers, records, nil
}
