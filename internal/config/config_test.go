package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const samplePipeline = `{
  "source": {
    "path": "data/bmw_sales.csv",
    "fallback_sample": true
  },
  "transform": [
    { "kind": "sanitize_names", "options": { "mode": "underscore" } },
    { "kind": "coerce_numeric", "options": { "policy": "allowlist", "columns": ["year", "price_usd"] } },
    { "kind": "project", "options": { "columns": ["model", "year", "price_usd"] } }
  ],
  "storage": {
    "kind": "mysql",
    "dsn": "user:${TEST_ETL_PW}@tcp(localhost:3306)/sales",
    "table": "bmw_sales"
  }
}`

func writePipeline(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_DecodesAndExpandsEnv(t *testing.T) {
	t.Setenv("TEST_ETL_PW", "s3cret")
	t.Setenv("DATASET_PATH", "")
	t.Setenv("ETL_TABLE", "")

	p, err := Load(writePipeline(t, samplePipeline))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Source.Path != "data/bmw_sales.csv" {
		t.Errorf("Source.Path = %q", p.Source.Path)
	}
	if !p.Source.FallbackSample {
		t.Errorf("Source.FallbackSample = false, want true")
	}
	if len(p.Transform) != 3 {
		t.Fatalf("len(Transform) = %d, want 3", len(p.Transform))
	}
	if got := p.Transform[1].Options.StringSlice("columns"); len(got) != 2 || got[1] != "price_usd" {
		t.Errorf("coerce_numeric columns = %v", got)
	}
	if !strings.Contains(p.Storage.DSN, "s3cret") {
		t.Errorf("DSN env expansion failed: %q", p.Storage.DSN)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATASET_PATH", "/srv/drop/latest.csv")
	t.Setenv("ETL_TABLE", "bmw_sales_v2")
	t.Setenv("TEST_ETL_PW", "x")

	p, err := Load(writePipeline(t, samplePipeline))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Source.Path != "/srv/drop/latest.csv" {
		t.Errorf("DATASET_PATH override not applied: %q", p.Source.Path)
	}
	if p.Storage.Table != "bmw_sales_v2" {
		t.Errorf("ETL_TABLE override not applied: %q", p.Storage.Table)
	}
}

func TestValidate(t *testing.T) {
	base := func() Pipeline {
		return Pipeline{
			Source: Source{Path: "a.csv"},
			Transform: []Transform{
				{Kind: "sanitize_names", Options: Options{}},
				{Kind: "coerce_numeric", Options: Options{"policy": "infer", "threshold": 0.8}},
			},
			Storage: Storage{Kind: "sqlite", DSN: "file:etl.db", Table: "sales"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Pipeline)
		wantErr string
	}{
		{"valid", func(p *Pipeline) {}, ""},
		{"missing_path", func(p *Pipeline) { p.Source.Path = " " }, "source.path"},
		{"multi_rune_delimiter", func(p *Pipeline) { p.Source.Delimiter = ";;" }, "delimiter"},
		{"unknown_transform", func(p *Pipeline) { p.Transform[0].Kind = "dedupe" }, "unknown kind"},
		{"bad_sanitize_mode", func(p *Pipeline) { p.Transform[0].Options = Options{"mode": "camel"} }, "mode"},
		{"bad_threshold", func(p *Pipeline) { p.Transform[1].Options = Options{"policy": "infer", "threshold": 1.5} }, "threshold"},
		{"allowlist_without_columns", func(p *Pipeline) { p.Transform[1].Options = Options{"policy": "allowlist"} }, "columns"},
		{"unknown_storage", func(p *Pipeline) { p.Storage.Kind = "duckdb" }, "storage.kind"},
		{"missing_dsn", func(p *Pipeline) { p.Storage.DSN = "" }, "storage.dsn"},
		{"missing_table", func(p *Pipeline) { p.Storage.Table = "" }, "storage.table"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := base()
			tc.mutate(&p)
			err := p.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestMySQLDSN_EncodesPassword(t *testing.T) {
	got := MySQLDSN("etl", "p@ss/w:rd", "db.internal", "3306", "sales")
	want := "etl:p%40ss%2Fw%3Ard@tcp(db.internal:3306)/sales?parseTime=true"
	if got != want {
		t.Errorf("MySQLDSN = %q, want %q", got, want)
	}
}
