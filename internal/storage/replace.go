package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"salesetl/internal/ddl"
	"salesetl/pkg/records"
)

// DefaultBatchSize caps rows per InsertRows call when the pipeline does not
// configure one.
const DefaultBatchSize = 500

// ReplaceTable durably replaces table's contents with the record set:
// liveness ping, DROP TABLE IF EXISTS, CREATE TABLE with column types
// inferred from the set's runtime values, then batched inserts. Any existing
// table of the same name is destroyed.
//
// The sequence is intentionally not wrapped in a transaction; a failed insert
// leaves the freshly created table partially filled. Callers treat every run
// as a full-table snapshot, so the next successful run repairs it.
//
// The caller keeps ownership of repo and must Close it on every path.
func ReplaceTable(ctx context.Context, repo Repository, table string, t *records.Table, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	if err := repo.Ping(ctx); err != nil {
		return 0, fmt.Errorf("storage: ping: %w", err)
	}

	d := repo.Dialect()
	def := ddl.InferTableDef(table, t)
	create, err := ddl.BuildCreateTableSQL(def, d.Quote, d.Types)
	if err != nil {
		return 0, fmt.Errorf("storage: %w", err)
	}

	if err := repo.Exec(ctx, ddl.BuildDropTableSQL(table, d.Quote)); err != nil {
		return 0, fmt.Errorf("storage: drop %s: %w", table, err)
	}
	if err := repo.Exec(ctx, create); err != nil {
		return 0, fmt.Errorf("storage: create %s: %w", table, err)
	}

	var (
		total   int64
		batches int
		rows    = t.AllRows()
		start   = time.Now()
	)
	for len(rows) > 0 {
		n := batchSize
		if n > len(rows) {
			n = len(rows)
		}
		inserted, err := repo.InsertRows(ctx, table, t.Columns, rows[:n])
		total += inserted
		if err != nil {
			return total, fmt.Errorf("storage: insert into %s: %w", table, err)
		}
		batches++
		rows = rows[n:]
	}

	log.Printf("storage: replaced %s: rows=%d batches=%d elapsed=%s",
		table, total, batches, time.Since(start).Truncate(time.Millisecond))
	return total, nil
}
