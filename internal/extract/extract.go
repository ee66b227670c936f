// Package extract reads the delimited input file in full and produces the raw
// record set for the transform stage. No type coercion happens here: cells
// stay textual (or nil for empty), and header fields are kept exactly as the
// file wrote them.
package extract

import (
	"errors"
	"fmt"
	"log"
	"os"

	"salesetl/internal/config"
	csvparser "salesetl/internal/parser/csv"
	"salesetl/pkg/records"
)

// ErrNotFound reports that the input path did not resolve to a readable file.
// With Source.FallbackSample disabled this aborts the run.
var ErrNotFound = errors.New("input file not found")

// FromFile reads the configured CSV file into a Table.
//
// When the file is missing and src.FallbackSample is true, a small fixed
// sample record set is returned instead of an error. That is a policy choice
// for smoke-testing a pipeline without its data drop, not error recovery;
// the substitution is logged loudly.
func FromFile(src config.Source) (*records.Table, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		if os.IsNotExist(err) {
			if src.FallbackSample {
				log.Printf("extract: %s missing, substituting %d-row sample set", src.Path, len(sampleRows))
				return SampleTable(), nil
			}
			return nil, fmt.Errorf("extract: %s: %w", src.Path, ErrNotFound)
		}
		return nil, fmt.Errorf("extract: open %s: %w", src.Path, err)
	}
	defer f.Close()

	var comma rune
	if src.Delimiter != "" {
		comma = rune(src.Delimiter[0])
	}
	p := csvparser.NewParser(csvparser.Options{
		HasHeader: true,
		Comma:     comma,
		TrimSpace: true,
	})
	tbl, skipped, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("extract: parse %s: %w", src.Path, err)
	}
	if skipped > 0 {
		log.Printf("extract: %s: skipped %d malformed rows", src.Path, skipped)
	}
	log.Printf("extract: %s: %d rows, %d columns", src.Path, tbl.NumRows(), tbl.NumColumns())
	return tbl, nil
}
