package records

import (
	"reflect"
	"testing"
)

func TestTableRowValues_ColumnOrder(t *testing.T) {
	tbl := Table{
		Columns: []string{"model", "year", "price_usd"},
		Rows: []Record{
			{"model": "X3", "year": int64(2022), "price_usd": float64(110000)},
			{"model": "5 Series", "year": int64(2024), "price_usd": float64(95000)},
		},
	}

	got := tbl.AllRows()
	want := [][]any{
		{"X3", int64(2022), float64(110000)},
		{"5 Series", int64(2024), float64(95000)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AllRows() = %#v, want %#v", got, want)
	}
}

func TestTableColumn_MissingKeysAreNil(t *testing.T) {
	tbl := Table{
		Columns: []string{"a", "b"},
		Rows: []Record{
			{"a": "1", "b": "x"},
			{"a": "2"}, // b absent
		},
	}
	got := tbl.Column("b")
	want := []any{"x", nil}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Column(b) = %#v, want %#v", got, want)
	}
}

func TestTableHasColumn(t *testing.T) {
	tbl := Table{Columns: []string{"model", "year"}}
	if !tbl.HasColumn("year") {
		t.Errorf("HasColumn(year) = false, want true")
	}
	if tbl.HasColumn("price_usd") {
		t.Errorf("HasColumn(price_usd) = true, want false")
	}
}
