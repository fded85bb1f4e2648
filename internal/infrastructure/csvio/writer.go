package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Writer streams rows with a fixed header set to CSV output.
type Writer struct {
	writer  *csv.Writer
	headers []string
	rows    int
}

// NewWriter creates a Writer and emits the header row immediately.
func NewWriter(w io.Writer, headers []string) (*Writer, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return nil, fmt.Errorf("csvio: write header: %w", err)
	}
	return &Writer{writer: cw, headers: headers}, nil
}

// Write emits one row, pulling values from the record map in header
// order. Missing columns are written as empty strings.
func (w *Writer) Write(record map[string]string) error {
	fields := make([]string, len(w.headers))
	for i, name := range w.headers {
		fields[i] = record[name]
	}
	if err := w.writer.Write(fields); err != nil {
		return fmt.Errorf("csvio: write row: %w", err)
	}
	w.rows++
	return nil
}

// Rows returns the number of data rows written so far.
func (w *Writer) Rows() int { return w.rows }

// Flush writes buffered output and reports any accumulated write error.
func (w *Writer) Flush() error {
	w.writer.Flush()
	return w.writer.Error()
}
