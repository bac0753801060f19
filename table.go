package farewatch

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cubny/farewatch/internal/pipeline"
)

// Table is a dataset as loaded from its source, the columns are kept in source order
type Table struct {
	Columns []string
	Rows    []Line
}

// Index returns the position of column in the table or -1 if the table does not have it
func (t Table) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// indexes returns the positions of all the given columns, failing on the first missing one
func (t Table) indexes(dataset string, columns ...string) ([]int, error) {
	idx := make([]int, len(columns))
	for i, c := range columns {
		idx[i] = t.Index(c)
		if idx[i] < 0 {
			return nil, fmt.Errorf("%w: %s dataset has no %q column", ErrConfiguration, dataset, c)
		}
	}
	return idx, nil
}

// cell returns the value of the i-th column of line, short lines yield an empty value
func cell(line Line, i int) string {
	if i < 0 || i >= len(line) {
		return ""
	}
	return strings.TrimSpace(line[i])
}

// Record is an overcharge or anomaly row surfaced verbatim
type Record struct {
	RouteID string
	Columns []string
	Values  Line
}

// Get returns the value of column in the record
func (r Record) Get(column string) (string, bool) {
	for i, c := range r.Columns {
		if c == column {
			return cell(r.Values, i), true
		}
	}
	return "", false
}

// MarshalJSON renders the record as an object keyed by column name
func (r Record) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, len(r.Columns))
	for i, c := range r.Columns {
		m[c] = cell(r.Values, i)
	}
	return json.Marshal(m)
}

// ReadCSV reads a dataset in CSV format, the first line is taken as the header
func ReadCSV(ctx context.Context, r io.Reader) (Table, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	in := csv.NewReader(r)
	in.TrimLeadingSpace = true

	var table Table
	linec, errc := pipeline.Generate(ctx, streamFromCSV(in))
	err := pipeline.Sink(ctx, linec, func(val interface{}) error {
		line, ok := val.(Line)
		if !ok {
			return errors.New("item of the wrong type passed")
		}
		if table.Columns == nil {
			table.Columns = header(line)
			return nil
		}
		table.Rows = append(table.Rows, line)
		return nil
	})
	if err != nil {
		return Table{}, err
	}

	for err := range errc {
		switch {
		case err == io.EOF:
		case err != nil:
			return Table{}, err
		}
	}

	if table.Columns == nil {
		return Table{}, errors.New("dataset has no header")
	}

	return table, nil
}

// LoadCSV opens and reads a CSV dataset from path, any failure is a configuration error
func LoadCSV(ctx context.Context, path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	defer f.Close()

	table, err := ReadCSV(ctx, f)
	if err != nil {
		return Table{}, fmt.Errorf("%w: read %s: %w", ErrConfiguration, path, err)
	}
	return table, nil
}

// streamFromCSV returns a pipeline.generateFunc that reads one line at a time from a csv.Reader
func streamFromCSV(in *csv.Reader) func() (interface{}, error) {
	return func() (interface{}, error) {
		record, err := in.Read()
		if err != nil {
			return nil, err
		}
		return Line(record), nil
	}
}

// header trims the column names and drops a UTF-8 byte order mark
func header(line Line) []string {
	columns := make([]string, len(line))
	for i, c := range line {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(c, "\ufeff"))
	}
	return columns
}
