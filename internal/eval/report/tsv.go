package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// WriteTSV writes the record to path as a header row and a single value row,
// creating the parent directory when needed.
func WriteTSV(r *Record, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create results file: %w", err)
	}
	if err := EncodeTSV(r, f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close results file: %w", err)
	}
	return nil
}

func EncodeTSV(r *Record, w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	row := make([]string, 0, len(r.Metrics)+1)
	for _, m := range r.Metrics {
		row = append(row, strconv.FormatFloat(m.Value, 'f', -1, 64))
	}
	row = append(row, r.Model)

	if err := cw.Write(r.Columns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush results: %w", err)
	}
	return nil
}
