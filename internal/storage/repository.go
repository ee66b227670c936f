// Package storage contains the storage-agnostic repository contract, a
// kind-keyed backend factory, and the full-replace load driver. Concrete
// backends live in subpackages and register themselves at init time; the
// storage/all package wires every built-in backend into a binary with one
// blank import.
package storage

import (
	"context"
	"fmt"
	"sync"

	"salesetl/internal/ddl"
)

// Config carries the backend-independent connection settings taken from the
// pipeline's storage block.
type Config struct {
	// DSN is the backend connection string.
	DSN string
}

// Dialect bundles the identifier quoting and type mapping a backend's SQL
// flavor needs when the generic ddl package renders statements for it.
type Dialect struct {
	Quote ddl.QuoteFunc
	Types ddl.TypeMap
}

// Repository is the minimal surface the loader needs from a database. One
// Repository owns one connection (or pool); Close releases it and must be
// called on every exit path.
type Repository interface {
	// Ping verifies liveness with a trivial round trip.
	Ping(ctx context.Context) error

	// Exec runs a statement that returns no rows (DDL).
	Exec(ctx context.Context, sql string) error

	// InsertRows bulk-inserts one batch of rows, aligned to columns order,
	// and reports how many rows the backend accepted.
	InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	// Dialect exposes the backend's quoting and type mapping.
	Dialect() Dialect

	// Close releases the underlying connection or pool.
	Close()
}

// Factory constructs a Repository for one storage kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for a storage kind. Backends
// call this from init().
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository of the given kind. The caller owns the result and
// must Close it.
func New(ctx context.Context, kind string, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: no backend registered for kind %q", kind)
	}
	return f(ctx, cfg)
}
