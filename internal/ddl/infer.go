package ddl

import "salesetl/pkg/records"

// InferTableDef derives a table definition from the record set's runtime
// value types, one ColumnDef per table column in order.
//
// Rules per column:
//   - any float64 cell        -> KindReal (mixed int/float widens to real)
//   - otherwise any int64/int -> KindInteger
//   - otherwise any bool      -> KindBool
//   - everything else         -> KindText (including all-nil columns)
func InferTableDef(name string, t *records.Table) TableDef {
	def := TableDef{Name: name, Columns: make([]ColumnDef, len(t.Columns))}
	for i, col := range t.Columns {
		def.Columns[i] = ColumnDef{Name: col, Kind: inferKind(t, col)}
	}
	return def
}

func inferKind(t *records.Table, col string) Kind {
	var sawInt, sawBool bool
	for _, r := range t.Rows {
		switch r[col].(type) {
		case float64, float32:
			return KindReal
		case int64, int:
			sawInt = true
		case bool:
			sawBool = true
		}
	}
	switch {
	case sawInt:
		return KindInteger
	case sawBool:
		return KindBool
	default:
		return KindText
	}
}
