// Package mysql implements a MySQL-backed storage.Repository using
// database/sql and go-sql-driver. Batches are written with a single
// multi-row INSERT; batch sizes stay small enough that the statement fits
// comfortably under max_allowed_packet.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"salesetl/internal/ddl"
	"salesetl/internal/storage"
)

func init() {
	storage.Register("mysql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg.DSN)
	})
}

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// NewRepository opens a MySQL connection pool. The DSN is validated up front
// so an obviously malformed connection string fails before any dialing, and a
// bounded ping fails fast on an unreachable server.
func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	if _, err := mysql.ParseDSN(dsn); err != nil {
		return nil, fmt.Errorf("mysql: dsn: %w", err)
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql: open: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql: ping: %w", err)
	}
	return &Repository{db: db}, nil
}

// Ping verifies liveness with a trivial round trip (SELECT 1).
func (r *Repository) Ping(ctx context.Context) error {
	var one int
	if err := r.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("mysql: ping: %w", err)
	}
	return nil
}

// Exec executes a statement (typically DDL) that returns no rows.
func (r *Repository) Exec(ctx context.Context, stmt string) error {
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("mysql: exec: %w", err)
	}
	return nil
}

// InsertRows writes one batch as a single multi-row INSERT.
func (r *Repository) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("mysql: InsertRows: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	rowPH := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"
	values := make([]string, len(rows))
	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("mysql: InsertRows: row has %d values, want %d", len(row), len(columns))
		}
		values[i] = rowPH
		args = append(args, row...)
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		quote(table), joinQuoted(columns), strings.Join(values, ", "))
	res, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("mysql: insert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return int64(len(rows)), nil
	}
	return n, nil
}

// Dialect exposes MySQL quoting and type names.
func (r *Repository) Dialect() storage.Dialect {
	return storage.Dialect{Quote: quote, Types: mapType}
}

// Close releases the connection pool.
func (r *Repository) Close() { _ = r.db.Close() }

func quote(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }

func joinQuoted(cols []string) string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = quote(c)
	}
	return strings.Join(out, ", ")
}

func mapType(k ddl.Kind) string {
	switch k {
	case ddl.KindInteger:
		return "BIGINT"
	case ddl.KindReal:
		return "DOUBLE"
	case ddl.KindBool:
		return "TINYINT(1)"
	default:
		return "TEXT"
	}
}
