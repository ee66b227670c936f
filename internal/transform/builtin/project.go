package builtin

import (
	"errors"
	"fmt"

	"salesetl/pkg/records"
)

// ErrSchemaMismatch reports that a column the destination schema expects is
// absent after sanitization and coercion. The run aborts rather than loading
// a partial table.
var ErrSchemaMismatch = errors.New("expected column missing")

// Project selects exactly Columns, in that order, discarding any extras.
// Column names are matched post-sanitization, so the list uses the normalized
// form ("price_usd", not "Price_USD").
type Project struct {
	Columns []string
}

func (p Project) Apply(t *records.Table) (*records.Table, error) {
	for _, want := range p.Columns {
		if !t.HasColumn(want) {
			return nil, fmt.Errorf("project: %q (have %v): %w", want, t.Columns, ErrSchemaMismatch)
		}
	}

	keep := make(map[string]bool, len(p.Columns))
	for _, c := range p.Columns {
		keep[c] = true
	}
	for _, r := range t.Rows {
		for k := range r {
			if !keep[k] {
				delete(r, k)
			}
		}
	}
	t.Columns = append([]string(nil), p.Columns...)
	return t, nil
}
