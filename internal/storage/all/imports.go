// Package all wires every built-in storage backend into the storage factory.
//
// The package exists purely for side effects: a blank import runs each
// backend's init(), which registers its factory with the storage package.
// cmd/etl imports it so the pipeline file alone decides which backend a run
// uses; a binary that should support only a subset can import the individual
// backend packages instead.
package all

import (
	_ "salesetl/internal/storage/mssql"
	_ "salesetl/internal/storage/mysql"
	_ "salesetl/internal/storage/postgres"
	_ "salesetl/internal/storage/sqlite"
)
