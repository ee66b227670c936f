// Package builtin contains the concrete transformers used by the sales ETL:
// column-name sanitization, numeric coercion, and expected-schema projection.
package builtin

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"salesetl/pkg/records"
)

// SanitizeMode selects how characters outside [a-z0-9_] are handled after
// lowercasing. Both modes exist in production pipelines and diverge on
// punctuation-heavy headers, so the mode is explicit configuration rather
// than a default an operator has to guess.
type SanitizeMode string

const (
	// ModeStrip converts spaces to underscores, then deletes every remaining
	// character outside [a-z0-9_]. "Price-USD" becomes "priceusd".
	ModeStrip SanitizeMode = "strip"

	// ModeUnderscore replaces every run of characters outside [a-z0-9_] with
	// a single underscore and trims underscores from the ends.
	// "Engine Size (L)" becomes "engine_size_l".
	ModeUnderscore SanitizeMode = "underscore"
)

// SanitizeNames normalizes every column name to lowercase alphanumerics and
// underscores. Accented letters are folded to ASCII before filtering so that
// e.g. "Región" keeps its letters instead of losing them.
//
// Sanitization is idempotent: applying it to an already-sanitized table is a
// no-op. Two source columns collapsing to the same sanitized name is an
// error, since record keys must stay unique.
type SanitizeNames struct {
	Mode SanitizeMode
}

func (s SanitizeNames) Apply(t *records.Table) (*records.Table, error) {
	mode := s.Mode
	if mode == "" {
		mode = ModeStrip
	}

	renames := make(map[string]string, len(t.Columns))
	cols := make([]string, len(t.Columns))
	seen := make(map[string]string, len(t.Columns))
	for i, c := range t.Columns {
		name := SanitizeName(c, mode)
		if prev, dup := seen[name]; dup {
			return nil, fmt.Errorf("sanitize: columns %q and %q both normalize to %q", prev, c, name)
		}
		seen[name] = c
		renames[c] = name
		cols[i] = name
	}

	for _, r := range t.Rows {
		for from, to := range renames {
			if from == to {
				continue
			}
			if v, ok := r[from]; ok {
				r[to] = v
				delete(r, from)
			}
		}
	}
	t.Columns = cols
	return t, nil
}

// SanitizeName normalizes a single column name: trim, lowercase, strip
// accents (NFD, drop nonspacing marks, NFC), then apply the mode's character
// policy. An empty result falls back to "col".
func SanitizeName(name string, mode SanitizeMode) string {
	s := strings.ToLower(strings.TrimSpace(name))

	deaccent := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(deaccent, s)
	if err == nil {
		s = ascii
	}

	var b strings.Builder
	b.Grow(len(s))
	switch mode {
	case ModeUnderscore:
		pendingSep := false
		for _, r := range s {
			if allowed(r) {
				if pendingSep && b.Len() > 0 {
					b.WriteByte('_')
				}
				pendingSep = false
				b.WriteRune(r)
			} else {
				pendingSep = true
			}
		}
	default: // ModeStrip
		for _, r := range s {
			if r == ' ' {
				b.WriteByte('_')
			} else if allowed(r) {
				b.WriteRune(r)
			}
		}
	}

	out := b.String()
	if out == "" {
		return "col"
	}
	return out
}

func allowed(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'
}
