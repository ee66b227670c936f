package extract

import "salesetl/pkg/records"

// sampleColumns/sampleRows form the fixed fallback record set used when the
// input file is missing and the pipeline opted into fallback_sample. The
// shape mirrors a trimmed sales export: headers in source form (pre-sanitize),
// values textual as the CSV parser would produce them.
var sampleColumns = []string{
	"Model", "Year", "Region", "Price_USD", "Sales_Classification", "Engine_Size_L", "Mileage_KM",
}

var sampleRows = [][]string{
	{"X3", "2022", "Europe", "110000", "High", "2.0", "50000"},
	{"5 Series", "2024", "Asia", "95000", "Low", "3.0", "10000"},
}

// SampleTable builds a fresh Table from the fixed sample data. Each call
// returns independent records so transforms can mutate the result freely.
func SampleTable() *records.Table {
	tbl := &records.Table{Columns: append([]string(nil), sampleColumns...)}
	for _, row := range sampleRows {
		rec := make(records.Record, len(sampleColumns))
		for i, col := range sampleColumns {
			rec[col] = row[i]
		}
		tbl.Rows = append(tbl.Rows, rec)
	}
	return tbl
}
