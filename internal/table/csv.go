package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMalformedInput is returned when the input bytes cannot be parsed as
// delimited text under either the headered or the headerless strategy.
var ErrMalformedInput = errors.New("input is not parseable as tabular data")

// Load parses CSV bytes into a Table.
//
// Two-stage parse: the first attempt treats the first record as a header row.
// When every field of that record reads as a number the file is taken to be
// headerless and positional column names "0", "1", ... are synthesized, so a
// bare coordinate dump like "34.05,-118.24" keeps all of its rows. A
// structural parse failure triggers a second, tolerant headerless attempt;
// only when that fails too does Load return ErrMalformedInput.
//
// Data records wider than the header are truncated to the header's column
// count, narrower ones are padded with missing cells. Loading the same bytes
// twice yields tables with identical cell values.
func Load(data []byte) (*Table, error) {
	records, err := parseRecords(data, false)
	if err != nil {
		records, err = parseRecords(data, true)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformedInput, err)
		}
		return fromRecords(records, false), nil
	}

	if len(records) == 0 {
		return New(nil, nil), nil
	}
	return fromRecords(records, !allNumeric(records[0])), nil
}

// WriteCSV renders the named columns of a table, in the given order, as CSV
// with a header row, standard quoting, and no index column.
func WriteCSV(t *Table, columns []string) ([]byte, error) {
	cols := make([][]Cell, len(columns))
	for i, name := range columns {
		cells, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		cols[i] = cells
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return nil, err
	}
	record := make([]string, len(columns))
	for r := 0; r < t.Len(); r++ {
		for i := range cols {
			record[i] = cols[i][r].String()
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func parseRecords(data []byte, lazy bool) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = lazy

	var records [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

// allNumeric reports whether every field of a record parses as a number,
// which marks the record as data rather than a header.
func allNumeric(record []string) bool {
	if len(record) == 0 {
		return false
	}
	for _, field := range record {
		if _, err := strconv.ParseFloat(strings.TrimSpace(field), 64); err != nil {
			return false
		}
	}
	return true
}

func fromRecords(records [][]string, hasHeader bool) *Table {
	if len(records) == 0 {
		return New(nil, nil)
	}
	var names []string
	var data [][]string
	if hasHeader {
		names = uniqueNames(records[0])
		data = records[1:]
	} else {
		names = positionalNames(len(records[0]))
		data = records
	}

	columns := make([][]Cell, len(names))
	for i := range columns {
		columns[i] = make([]Cell, len(data))
	}
	for r, record := range data {
		for i := range names {
			if i < len(record) {
				columns[i][r] = Text(record[i])
			} else {
				columns[i][r] = Missing()
			}
		}
	}
	return New(names, columns)
}

func positionalNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = strconv.Itoa(i)
	}
	return names
}

// uniqueNames trims header fields and disambiguates duplicates or blanks so
// column names stay unique within a table.
func uniqueNames(header []string) []string {
	names := make([]string, 0, len(header))
	seen := map[string]int{}
	for i, raw := range header {
		name := strings.TrimSpace(raw)
		if name == "" {
			name = strconv.Itoa(i)
		}
		seen[name]++
		if seen[name] > 1 {
			name = fmt.Sprintf("%s_%d", name, seen[name])
		}
		names = append(names, name)
	}
	return names
}
