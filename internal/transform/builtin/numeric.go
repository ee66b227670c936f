package builtin

import (
	"log"
	"math"
	"strconv"
	"strings"

	"salesetl/pkg/records"
)

// NumericPolicy selects how numeric columns are identified.
type NumericPolicy string

const (
	// PolicyInfer classifies a column as numeric when the fraction of its
	// non-missing values that parse as numbers exceeds Threshold.
	PolicyInfer NumericPolicy = "infer"

	// PolicyAllowlist coerces exactly the named columns, independent of
	// content. Allowlisted columns absent from the table are skipped;
	// projection is the place that enforces presence.
	PolicyAllowlist NumericPolicy = "allowlist"
)

// DefaultThreshold is the parse-ratio cutoff for PolicyInfer.
const DefaultThreshold = 0.8

// missingSentinel marks a cell whose value failed numeric parsing. It never
// leaves CoerceNumeric.Apply: the fill pass replaces every sentinel with a
// typed zero before returning.
type missingSentinel struct{}

// CoerceNumeric retypes numeric columns in place. For every column the policy
// classifies as numeric, each cell is parsed; unparseable or missing cells
// become zero. Cells of a coerced column come out as all-int64 or all-float64
// depending on whether every parsed value was integral. Columns not
// classified numeric are left untouched.
type CoerceNumeric struct {
	Policy    NumericPolicy
	Threshold float64  // PolicyInfer only; DefaultThreshold when 0
	Columns   []string // PolicyAllowlist only
}

func (c CoerceNumeric) Apply(t *records.Table) (*records.Table, error) {
	numeric := c.classify(t)
	if len(numeric) > 0 {
		log.Printf("transform: numeric columns: %s", strings.Join(numeric, ", "))
	}

	for _, col := range numeric {
		integral := columnIsIntegral(t, col)

		// Coerce pass: parse or mark missing.
		for _, r := range t.Rows {
			v, ok := parseNumber(r[col])
			if !ok {
				r[col] = missingSentinel{}
				continue
			}
			if integral {
				r[col] = int64(v)
			} else {
				r[col] = v
			}
		}

		// Fill pass: resolve every sentinel to zero.
		for _, r := range t.Rows {
			if _, miss := r[col].(missingSentinel); miss {
				if integral {
					r[col] = int64(0)
				} else {
					r[col] = float64(0)
				}
			}
		}
	}
	return t, nil
}

// classify returns the numeric column names in table order.
func (c CoerceNumeric) classify(t *records.Table) []string {
	switch c.Policy {
	case PolicyAllowlist:
		allowed := make(map[string]bool, len(c.Columns))
		for _, name := range c.Columns {
			allowed[name] = true
		}
		out := make([]string, 0, len(c.Columns))
		for _, col := range t.Columns {
			if allowed[col] {
				out = append(out, col)
			}
		}
		return out
	default: // PolicyInfer
		threshold := c.Threshold
		if threshold == 0 {
			threshold = DefaultThreshold
		}
		var out []string
		for _, col := range t.Columns {
			if inferNumeric(t, col, threshold) {
				out = append(out, col)
			}
		}
		return out
	}
}

// inferNumeric reports whether the parseable fraction of col's non-missing
// values exceeds threshold. A column with no non-missing values is not
// numeric; coercing it would manufacture an all-zero column from nothing.
func inferNumeric(t *records.Table, col string, threshold float64) bool {
	var nonMissing, parsed int
	for _, r := range t.Rows {
		v := r[col]
		if v == nil {
			continue
		}
		nonMissing++
		if _, ok := parseNumber(v); ok {
			parsed++
		}
	}
	if nonMissing == 0 {
		return false
	}
	return float64(parsed)/float64(nonMissing) > threshold
}

// columnIsIntegral reports whether every parseable value in col is a whole
// number, in which case the column coerces to int64 instead of float64.
func columnIsIntegral(t *records.Table, col string) bool {
	seen := false
	for _, r := range t.Rows {
		v, ok := parseNumber(r[col])
		if !ok {
			continue
		}
		seen = true
		if v != math.Trunc(v) {
			return false
		}
	}
	return seen
}

// parseNumber extracts a finite float64 from a cell. Strings are trimmed and
// parsed; numeric Go types pass through. NaN and infinities do not count as
// numbers: every loaded value must be finite.
func parseNumber(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case nil:
		return 0, false
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
