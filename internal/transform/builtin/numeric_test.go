package builtin

import (
	"reflect"
	"testing"

	"salesetl/pkg/records"
)

// column builds a one-column table from textual cells; nil stays nil.
func column(name string, cells ...any) *records.Table {
	tbl := &records.Table{Columns: []string{name}}
	for _, c := range cells {
		tbl.Rows = append(tbl.Rows, records.Record{name: c})
	}
	return tbl
}

/*
TestCoerceNumeric_InferPolicy verifies heuristic classification: a column is
numeric when more than Threshold of its non-missing values parse as numbers,
and every cell of a numeric column comes out as a finite typed number with
failures zero-filled.
*/
func TestCoerceNumeric_InferPolicy(t *testing.T) {
	tests := []struct {
		name string
		in   *records.Table
		want []any
	}{
		{
			name: "clean_integers_stay_int64",
			in:   column("year", "2022", "2024"),
			want: []any{int64(2022), int64(2024)},
		},
		{
			name: "decimal_column_becomes_float64",
			in:   column("engine_size_l", "2.0", "3.5"),
			want: []any{float64(2), float64(3.5)},
		},
		{
			name: "85_percent_numeric_classified_and_zero_filled",
			in: column("price_usd",
				"110000", "95000", "87000", "72000", "101000", "N/A"),
			want: []any{int64(110000), int64(95000), int64(87000), int64(72000), int64(101000), int64(0)},
		},
		{
			name: "mostly_text_left_untouched",
			in:   column("model", "X3", "5 Series", "M4", "2002"),
			want: []any{"X3", "5 Series", "M4", "2002"},
		},
		{
			name: "missing_cells_zero_filled_not_counted_against_ratio",
			in:   column("sales_volume", "100", nil, "250"),
			want: []any{int64(100), int64(0), int64(250)},
		},
		{
			name: "all_missing_column_not_classified",
			in:   column("notes", nil, nil),
			want: []any{nil, nil},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := CoerceNumeric{Policy: PolicyInfer}.Apply(tc.in)
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			col := out.Column(out.Columns[0])
			if !reflect.DeepEqual(col, tc.want) {
				t.Errorf("column = %#v, want %#v", col, tc.want)
			}
		})
	}
}

func TestCoerceNumeric_ExactlyAtThresholdNotNumeric(t *testing.T) {
	// 4 of 5 parse = 0.8, which does not exceed the threshold.
	tbl := column("mixed", "1", "2", "3", "4", "x")
	out, err := CoerceNumeric{Policy: PolicyInfer, Threshold: 0.8}.Apply(tbl)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := out.Rows[0]["mixed"]; got != "1" {
		t.Errorf("cell = %#v, want untouched string", got)
	}
}

/*
TestCoerceNumeric_AllowlistPolicy verifies that classification depends only
on the configured column names, not content: listed columns are coerced even
when mostly text, unlisted numeric-looking columns are left alone, and listed
columns absent from the table are skipped.
*/
func TestCoerceNumeric_AllowlistPolicy(t *testing.T) {
	tbl := &records.Table{
		Columns: []string{"model", "year", "mileage_km"},
		Rows: []records.Record{
			{"model": "X3", "year": "2022", "mileage_km": "broken"},
			{"model": "320i", "year": "2020", "mileage_km": "50000"},
		},
	}
	c := CoerceNumeric{Policy: PolicyAllowlist, Columns: []string{"mileage_km", "price_usd"}}
	out, err := c.Apply(tbl)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	// mileage_km listed: coerced, failure zero-filled.
	if want := []any{int64(0), int64(50000)}; !reflect.DeepEqual(out.Column("mileage_km"), want) {
		t.Errorf("mileage_km = %#v, want %#v", out.Column("mileage_km"), want)
	}
	// year unlisted: untouched even though fully numeric.
	if want := []any{"2022", "2020"}; !reflect.DeepEqual(out.Column("year"), want) {
		t.Errorf("year = %#v, want %#v", out.Column("year"), want)
	}
	// price_usd absent: no column invented.
	if out.HasColumn("price_usd") {
		t.Errorf("allowlist invented column price_usd")
	}
}

func TestCoerceNumeric_NaNAndInfDoNotCount(t *testing.T) {
	tbl := column("v", "NaN", "+Inf", "12")
	out, err := CoerceNumeric{Policy: PolicyInfer, Threshold: 0.3}.Apply(tbl)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	// 1 of 3 parse (0.33 > 0.3): numeric; NaN/Inf are parse failures -> 0.
	want := []any{int64(0), int64(0), int64(12)}
	if !reflect.DeepEqual(out.Column("v"), want) {
		t.Errorf("v = %#v, want %#v", out.Column("v"), want)
	}
}

func TestCoerceNumeric_RowCountUnchanged(t *testing.T) {
	tbl := column("p", "1", "x", nil, "4.5")
	before := tbl.NumRows()
	out, err := CoerceNumeric{Policy: PolicyInfer, Threshold: 0.5}.Apply(tbl)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.NumRows() != before {
		t.Errorf("row count changed: %d -> %d", before, out.NumRows())
	}
}
