// Package pipeline sequences one ETL run: extract the input file, apply the
// configured transform chain, and replace the destination table. The stages
// are plain typed functions executed strictly in order; any scheduler, retry
// loop, or run history lives outside this package and drives Run as a whole.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"salesetl/internal/config"
	"salesetl/internal/extract"
	"salesetl/internal/metrics"
	"salesetl/internal/storage"
	"salesetl/internal/transform"
	"salesetl/internal/transform/builtin"
	"salesetl/pkg/records"
)

// Run executes the full pipeline once. It is idempotent at the table level:
// a second run over the same input produces identical table contents. The
// repository is opened immediately before the load stage and released on
// every exit path.
func Run(ctx context.Context, cfg config.Pipeline) error {
	job := cfg.Storage.Table

	// Extract.
	start := time.Now()
	tbl, err := extract.FromFile(cfg.Source)
	metrics.RecordStep(job, "extract", err, time.Since(start))
	if err != nil {
		return fmt.Errorf("pipeline: extract: %w", err)
	}
	if tbl.NumColumns() == 0 {
		log.Printf("pipeline: aborting, extraction yielded no columns from %s", cfg.Source.Path)
		return fmt.Errorf("pipeline: extract: %s produced an empty record set", cfg.Source.Path)
	}
	metrics.RecordRows(job, "extracted", int64(tbl.NumRows()))

	// Transform.
	chain, err := buildChain(cfg.Transform)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	start = time.Now()
	tbl, err = chain.Apply(tbl)
	metrics.RecordStep(job, "transform", err, time.Since(start))
	if err != nil {
		return fmt.Errorf("pipeline: transform: %w", err)
	}
	log.Printf("pipeline: transformed: rows=%d columns=%v digest=%016x",
		tbl.NumRows(), tbl.Columns, Digest(tbl))

	// Load.
	start = time.Now()
	loaded, err := load(ctx, cfg.Storage, tbl)
	metrics.RecordStep(job, "load", err, time.Since(start))
	if err != nil {
		return fmt.Errorf("pipeline: load: %w", err)
	}
	metrics.RecordRows(job, "loaded", loaded)

	log.Printf("pipeline: done: table=%s rows=%d", cfg.Storage.Table, loaded)
	return nil
}

// load opens the configured backend, replaces the destination table, and
// releases the connection whether or not the replace succeeded.
func load(ctx context.Context, st config.Storage, tbl *records.Table) (int64, error) {
	repo, err := storage.New(ctx, st.Kind, storage.Config{DSN: st.DSN})
	if err != nil {
		return 0, err
	}
	defer repo.Close()
	return storage.ReplaceTable(ctx, repo, st.Table, tbl, st.BatchSize)
}

// buildChain maps configured transform steps onto their implementations.
// Keep the kinds in sync with config.Validate.
func buildChain(steps []config.Transform) (transform.Chain, error) {
	chain := make(transform.Chain, 0, len(steps))
	for _, s := range steps {
		switch s.Kind {
		case "sanitize_names":
			chain = append(chain, builtin.SanitizeNames{
				Mode: builtin.SanitizeMode(s.Options.String("mode", string(builtin.ModeStrip))),
			})
		case "coerce_numeric":
			chain = append(chain, builtin.CoerceNumeric{
				Policy:    builtin.NumericPolicy(s.Options.String("policy", string(builtin.PolicyInfer))),
				Threshold: s.Options.Float("threshold", 0),
				Columns:   s.Options.StringSlice("columns"),
			})
		case "project":
			chain = append(chain, builtin.Project{Columns: s.Options.StringSlice("columns")})
		default:
			return nil, fmt.Errorf("unknown transform kind %q", s.Kind)
		}
	}
	return chain, nil
}
