// Package transform defines the transformation contract applied to the
// extracted record set before loading. Transformers operate on the whole
// table at once; the pipeline is sequential and nothing here streams.
//
// Every transformer preserves row count. Columns may be renamed, retyped,
// dropped, or reordered, but a table that goes in with N rows comes out with
// N rows.
package transform

import "salesetl/pkg/records"

// Transformer rewrites a table in place and returns it. Implementations that
// cannot fail structurally should still honor the error return for chaining.
type Transformer interface {
	Apply(*records.Table) (*records.Table, error)
}

// Chain is an ordered list of transformers applied left to right. The first
// error stops the chain.
type Chain []Transformer

func (c Chain) Apply(t *records.Table) (*records.Table, error) {
	var err error
	for _, tr := range c {
		if t, err = tr.Apply(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}
