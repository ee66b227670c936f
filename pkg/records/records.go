// Package records defines the in-memory tabular structure that flows between
// the extract, transform, and load stages.
//
// A Table is an ordered set of named columns plus one Record per data row.
// Column order matters: it drives CREATE TABLE column order and the insert
// column list, so transforms that rename or drop columns must keep
// Table.Columns authoritative.
package records

// Record is a single row keyed by column name. Values are untyped: the CSV
// parser produces string or nil (empty cell), and the numeric coercion
// transform rewrites cells to int64/float64.
type Record map[string]any

// Table is the record set exchanged between pipeline stages. Rows are aligned
// by key, not by index, but every Record is expected to carry exactly the
// keys listed in Columns.
type Table struct {
	Columns []string
	Rows    []Record
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return len(t.Rows) }

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int { return len(t.Columns) }

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Column returns every cell of the named column in row order. Missing keys
// yield nil entries. The caller owns the returned slice.
func (t *Table) Column(name string) []any {
	out := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[name]
	}
	return out
}

// RowValues returns row i's cells in column order. The caller owns the
// returned slice; it is safe to hand to a database driver.
func (t *Table) RowValues(i int) []any {
	out := make([]any, len(t.Columns))
	for j, c := range t.Columns {
		out[j] = t.Rows[i][c]
	}
	return out
}

// AllRows materializes every row via RowValues, in row order. This is the
// shape storage backends consume for bulk inserts.
func (t *Table) AllRows() [][]any {
	out := make([][]any, len(t.Rows))
	for i := range t.Rows {
		out[i] = t.RowValues(i)
	}
	return out
}
