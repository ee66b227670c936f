// Package ddl contains a small, backend-agnostic model for the destination
// table and helpers to render DROP/CREATE statements from it. Column types
// are logical kinds inferred from the record set's runtime values; each
// storage backend maps kinds to its dialect's type names and quotes
// identifiers its own way.
package ddl

// Kind is a logical column type. The transform stage guarantees that a
// numeric-classified column holds a single Go type, so inference from runtime
// values is deterministic.
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindReal
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindBool:
		return "boolean"
	default:
		return "text"
	}
}

// ColumnDef describes one destination column.
type ColumnDef struct {
	Name string
	Kind Kind
}

// TableDef holds the destination table name and its ordered columns.
type TableDef struct {
	Name    string
	Columns []ColumnDef
}

// TypeMap translates a logical kind into a dialect type name (e.g.
// KindInteger -> "BIGINT" on MySQL, "INTEGER" on SQLite).
type TypeMap func(Kind) string

// QuoteFunc quotes a single identifier for a dialect. Backends supply their
// own (backticks, double quotes, brackets).
type QuoteFunc func(string) string
