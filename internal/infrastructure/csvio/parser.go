// Package csvio handles reading and writing the CSV files exchanged with
// the storefront export tooling.
package csvio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

var (
	// ErrEmptyFile is returned when the CSV file has no content.
	ErrEmptyFile = errors.New("csv file is empty")

	// ErrInvalidEncoding is returned when the file is not valid UTF-8.
	ErrInvalidEncoding = errors.New("csv file is not valid UTF-8")

	// ErrMissingHeader is returned when the CSV file has no header row.
	ErrMissingHeader = errors.New("csv file missing header row")
)

// Reader reads a headered CSV file row by row, mapping each row to its
// column names.
type Reader struct {
	reader  *csv.Reader
	headers []string
	line    int
}

// NewReader wraps r, stripping a UTF-8 BOM if present and reading the
// header row. Fields are allowed to vary in count per row; short rows
// map missing columns to the empty string.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("csvio: read: %w", err)
	}
	if len(head) == 0 {
		return nil, ErrEmptyFile
	}
	if len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
		_, _ = br.Discard(3)
	}
	if probe, err := br.Peek(4096); err == nil || err == io.EOF {
		if !utf8.Valid(probe) {
			return nil, ErrInvalidEncoding
		}
	}

	cr := csv.NewReader(br)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	record, err := cr.Read()
	if err == io.EOF {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("csvio: read header: %w", err)
	}

	headers := make([]string, len(record))
	for i, h := range record {
		headers[i] = strings.TrimSpace(h)
	}

	return &Reader{reader: cr, headers: headers, line: 1}, nil
}

// Headers returns the parsed header names in file order.
func (r *Reader) Headers() []string { return r.headers }

// Row is one data row keyed by column name, with its 1-indexed file line.
type Row struct {
	Line int
	Data map[string]string
}

// Get returns the trimmed value of a column, or "" if absent.
func (row *Row) Get(name string) string { return row.Data[name] }

// IsEmpty reports whether every column of the row is empty.
func (row *Row) IsEmpty() bool {
	for _, v := range row.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// Read returns the next row, or io.EOF at end of file.
func (r *Reader) Read() (*Row, error) {
	record, err := r.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	r.line++
	if err != nil {
		return nil, fmt.Errorf("csvio: row %d: %w", r.line, err)
	}

	row := &Row{Line: r.line, Data: make(map[string]string, len(r.headers))}
	for i, name := range r.headers {
		if i < len(record) {
			row.Data[name] = strings.TrimSpace(record[i])
		} else {
			row.Data[name] = ""
		}
	}
	return row, nil
}

// ReadAll returns all remaining non-empty rows.
func (r *Reader) ReadAll() ([]*Row, error) {
	var rows []*Row
	for {
		row, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
}
