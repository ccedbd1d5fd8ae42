// Package table holds the in-memory tabular data model and the CSV codec.
package table

import "strconv"

// CellKind discriminates the three value shapes a cell can hold.
type CellKind int

const (
	// KindMissing marks an absent or unusable value.
	KindMissing CellKind = iota
	// KindText is a raw string value, the shape every parsed CSV field starts as.
	KindText
	// KindNumber is a finite float64 value.
	KindNumber
)

// Cell is a tagged union of text, number, or missing. Code that cares about the
// variant switches on Kind rather than type-asserting an interface value.
type Cell struct {
	kind CellKind
	text string
	num  float64
}

// Text returns a text cell.
func Text(s string) Cell {
	return Cell{kind: KindText, text: s}
}

// Number returns a numeric cell.
func Number(v float64) Cell {
	return Cell{kind: KindNumber, num: v}
}

// Missing returns the missing cell.
func Missing() Cell {
	return Cell{kind: KindMissing}
}

// Kind returns the cell's variant.
func (c Cell) Kind() CellKind {
	return c.kind
}

// IsMissing reports whether the cell holds no value.
func (c Cell) IsMissing() bool {
	return c.kind == KindMissing
}

// TextValue returns the string payload and whether the cell is a text cell.
func (c Cell) TextValue() (string, bool) {
	return c.text, c.kind == KindText
}

// NumberValue returns the numeric payload and whether the cell is a number cell.
func (c Cell) NumberValue() (float64, bool) {
	return c.num, c.kind == KindNumber
}

// String renders the cell the way it is written to CSV output: text as-is,
// numbers in plain decimal notation, missing as the empty string.
func (c Cell) String() string {
	switch c.kind {
	case KindText:
		return c.text
	case KindNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Table is an ordered sequence of named columns of equal length. Column names
// are unique. Tables are never mutated in place; transformations return new
// tables sharing the untouched column slices.
type Table struct {
	names   []string
	columns [][]Cell
	rows    int
}

// New builds a table from column names and column-major cells. All columns
// must have the same length as the first; names must already be unique.
func New(names []string, columns [][]Cell) *Table {
	rows := 0
	if len(columns) > 0 {
		rows = len(columns[0])
	}
	return &Table{names: names, columns: columns, rows: rows}
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Len returns the row count.
func (t *Table) Len() int {
	return t.rows
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	return t.index(name) >= 0
}

// Column returns the cells of the named column.
func (t *Table) Column(name string) ([]Cell, bool) {
	i := t.index(name)
	if i < 0 {
		return nil, false
	}
	return t.columns[i], true
}

// Cell returns the cell at the given column and row.
func (t *Table) Cell(name string, row int) (Cell, bool) {
	i := t.index(name)
	if i < 0 || row < 0 || row >= t.rows {
		return Cell{}, false
	}
	return t.columns[i][row], true
}

// WithColumn returns a new table where the named column holds the given cells.
// A column that does not exist yet is appended. The cells slice must have
// exactly Len entries.
func (t *Table) WithColumn(name string, cells []Cell) *Table {
	i := t.index(name)
	if i < 0 {
		names := append(t.Columns(), name)
		columns := make([][]Cell, len(t.columns), len(t.columns)+1)
		copy(columns, t.columns)
		columns = append(columns, cells)
		return &Table{names: names, columns: columns, rows: t.rows}
	}
	columns := make([][]Cell, len(t.columns))
	copy(columns, t.columns)
	columns[i] = cells
	return &Table{names: t.Columns(), columns: columns, rows: t.rows}
}

// Filter returns a new table containing only the rows for which keep returns
// true, in their original order.
func (t *Table) Filter(keep func(row int) bool) *Table {
	kept := make([]int, 0, t.rows)
	for r := 0; r < t.rows; r++ {
		if keep(r) {
			kept = append(kept, r)
		}
	}

	columns := make([][]Cell, len(t.columns))
	for i, col := range t.columns {
		out := make([]Cell, len(kept))
		for j, r := range kept {
			out[j] = col[r]
		}
		columns[i] = out
	}
	return &Table{names: t.Columns(), columns: columns, rows: len(kept)}
}

func (t *Table) index(name string) int {
	for i, n := range t.names {
		if n == name {
			return i
		}
	}
	return -1
}
