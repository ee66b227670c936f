package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"salesetl/internal/ddl"
	"salesetl/pkg/records"
)

// fakeRepo records the statements and batches ReplaceTable issues. Failures
// are injected per call site to exercise the error paths.
type fakeRepo struct {
	execs     []string
	batches   [][][]any
	pingErr   error
	execErr   error
	insertErr error
}

func (f *fakeRepo) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeRepo) Exec(ctx context.Context, stmt string) error {
	if f.execErr != nil {
		return f.execErr
	}
	f.execs = append(f.execs, stmt)
	return nil
}

func (f *fakeRepo) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	batch := make([][]any, len(rows))
	copy(batch, rows)
	f.batches = append(f.batches, batch)
	return int64(len(rows)), nil
}

func (f *fakeRepo) Dialect() Dialect {
	return Dialect{
		Quote: func(id string) string { return `"` + id + `"` },
		Types: func(k ddl.Kind) string { return strings.ToUpper(k.String()) },
	}
}

func (f *fakeRepo) Close() {}

func salesTable(n int) *records.Table {
	tbl := &records.Table{Columns: []string{"model", "price_usd"}}
	for i := 0; i < n; i++ {
		tbl.Rows = append(tbl.Rows, records.Record{"model": "X3", "price_usd": int64(100000 + i)})
	}
	return tbl
}

func TestReplaceTable_DropCreateInsertOrder(t *testing.T) {
	repo := &fakeRepo{}
	total, err := ReplaceTable(context.Background(), repo, "bmw_sales", salesTable(3), 2)
	if err != nil {
		t.Fatalf("ReplaceTable: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(repo.execs) != 2 {
		t.Fatalf("execs = %v, want drop then create", repo.execs)
	}
	if !strings.HasPrefix(repo.execs[0], `DROP TABLE IF EXISTS "bmw_sales"`) {
		t.Errorf("first exec = %q, want DROP", repo.execs[0])
	}
	if !strings.HasPrefix(repo.execs[1], `CREATE TABLE "bmw_sales"`) {
		t.Errorf("second exec = %q, want CREATE", repo.execs[1])
	}
	if !strings.Contains(repo.execs[1], `"price_usd" INTEGER`) {
		t.Errorf("create lacks inferred integer column: %q", repo.execs[1])
	}
	// 3 rows at batch size 2 -> batches of 2 and 1.
	if len(repo.batches) != 2 || len(repo.batches[0]) != 2 || len(repo.batches[1]) != 1 {
		t.Errorf("batch shape = %d batches", len(repo.batches))
	}
}

func TestReplaceTable_PingFailureAbortsBeforeDrop(t *testing.T) {
	repo := &fakeRepo{pingErr: errors.New("connection refused")}
	_, err := ReplaceTable(context.Background(), repo, "bmw_sales", salesTable(1), 0)
	if err == nil || !strings.Contains(err.Error(), "ping") {
		t.Fatalf("err = %v, want ping failure", err)
	}
	if len(repo.execs) != 0 {
		t.Errorf("statements issued despite failed ping: %v", repo.execs)
	}
}

func TestReplaceTable_InsertFailurePropagates(t *testing.T) {
	repo := &fakeRepo{insertErr: errors.New("table is full")}
	_, err := ReplaceTable(context.Background(), repo, "bmw_sales", salesTable(1), 0)
	if err == nil || !strings.Contains(err.Error(), "table is full") {
		t.Fatalf("err = %v, want insert failure", err)
	}
}

func TestNew_UnknownKind(t *testing.T) {
	_, err := New(context.Background(), "voltdb", Config{DSN: "x"})
	if err == nil || !strings.Contains(err.Error(), "voltdb") {
		t.Fatalf("err = %v, want unknown-kind error", err)
	}
}

func TestRegisterAndNew(t *testing.T) {
	called := false
	Register("fake_test_backend", func(ctx context.Context, cfg Config) (Repository, error) {
		called = true
		return &fakeRepo{}, nil
	})
	repo, err := New(context.Background(), "fake_test_backend", Config{DSN: "dsn"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer repo.Close()
	if !called {
		t.Errorf("factory not invoked")
	}
}
