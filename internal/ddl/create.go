package ddl

import (
	"fmt"
	"strings"
)

// BuildCreateTableSQL renders a CREATE TABLE statement for def using the
// backend's identifier quoting and type mapping. Every column is nullable:
// full-replace loading derives the schema from one file's values, and the
// next drop may carry different gaps.
func BuildCreateTableSQL(def TableDef, quote QuoteFunc, types TypeMap) (string, error) {
	if strings.TrimSpace(def.Name) == "" {
		return "", fmt.Errorf("ddl: table name must not be empty")
	}
	if len(def.Columns) == 0 {
		return "", fmt.Errorf("ddl: table %s has no columns", def.Name)
	}

	cols := make([]string, len(def.Columns))
	for i, c := range def.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column %d of table %s has an empty name", i, def.Name)
		}
		cols[i] = quote(name) + " " + types(c.Kind)
	}

	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", quote(def.Name), strings.Join(cols, ",\n  ")), nil
}

// BuildDropTableSQL renders the destructive half of the full replace.
func BuildDropTableSQL(table string, quote QuoteFunc) string {
	return "DROP TABLE IF EXISTS " + quote(table)
}
