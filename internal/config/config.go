// Package config defines the canonical, JSON-serializable configuration model
// for the sales ETL pipeline. It is intentionally small, explicit, and
// dependency-free so that pipelines can be loaded from disk and passed through
// the program without additional glue code.
//
// Design goals:
//
//  1. Stability: changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: field names in Go mirror the JSON structure used in pipeline
//     files under configs/pipelines/*.json.
//  3. Minimalism: no third-party config libraries; decoding is performed by
//     the standard library, with a light Options helper for typed access.
//
// Example (trimmed):
//
//	{
//	  "source":    { "path": "data/bmw_sales.csv", "fallback_sample": false },
//	  "transform": [
//	    { "kind": "sanitize_names", "options": { "mode": "strip" } },
//	    { "kind": "coerce_numeric", "options": { "policy": "infer", "threshold": 0.8 } }
//	  ],
//	  "storage":   { "kind": "mysql", "dsn": "${MYSQL_DSN}", "table": "bmw_sales" }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
)

// Pipeline describes one full ETL run. It is the top-level object decoded
// from a pipeline file.
type Pipeline struct {
	// Source describes the input CSV file.
	Source Source `json:"source"`

	// Transform lists the ordered transformations applied to the extracted
	// record set. Each transform has a kind and an options bag whose shape is
	// defined by the transform implementation.
	Transform []Transform `json:"transform"`

	// Storage describes the database the record set is loaded into.
	Storage Storage `json:"storage"`
}

// Source identifies the delimited input file and the extract policy.
type Source struct {
	// Path is the local filesystem path to the input CSV file. The
	// DATASET_PATH environment variable, when set, takes precedence.
	Path string `json:"path"`

	// Delimiter is the field separator; "," when empty.
	Delimiter string `json:"delimiter"`

	// FallbackSample, when true, substitutes a small fixed sample record set
	// instead of failing when the file is missing. This is a policy choice,
	// not error recovery: with it disabled a missing file aborts the run.
	FallbackSample bool `json:"fallback_sample"`
}

// Transform defines a single transformation step. The sequence of steps forms
// the transformation chain executed by the pipeline.
type Transform struct {
	// Kind selects the transform implementation ("sanitize_names",
	// "coerce_numeric", "project"). Implementations define their own options.
	Kind string `json:"kind"`

	// Options is a free-form map interpreted by the selected transform.
	Options Options `json:"options"`
}

// Storage selects and configures the sink used to persist the record set.
type Storage struct {
	// Kind selects the storage backend ("mysql", "postgres", "mssql",
	// "sqlite"). Backends register themselves with the storage factory.
	Kind string `json:"kind"`

	// DSN is the backend connection string. ${VAR} references are expanded
	// from the environment at load time so credentials can stay out of the
	// pipeline file.
	DSN string `json:"dsn"`

	// Table is the destination table name. Existing contents are destroyed
	// on every run (full replace).
	Table string `json:"table"`

	// BatchSize caps rows per INSERT batch; a backend default applies when 0.
	BatchSize int `json:"batch_size"`
}

// Load reads and decodes a pipeline file, applies environment overrides
// (DATASET_PATH, ETL_TABLE), and expands ${VAR} references in the DSN.
func Load(path string) (Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	var p Pipeline
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Pipeline{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	p.applyEnv()
	return p, nil
}

// applyEnv layers process environment on top of the decoded file.
func (p *Pipeline) applyEnv() {
	if v := os.Getenv("DATASET_PATH"); v != "" {
		p.Source.Path = v
	}
	if v := os.Getenv("ETL_TABLE"); v != "" {
		p.Storage.Table = v
	}
	p.Storage.DSN = os.ExpandEnv(p.Storage.DSN)
}

// MySQLDSN assembles a go-sql-driver DSN from discrete connection parameters.
// The password is percent-encoded so credentials containing reserved
// characters survive the round trip.
func MySQLDSN(user, password, host, port, database string) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		user, url.QueryEscape(password), host, port, database)
}

// Options is a small helper to fetch typed values from arbitrary JSON maps
// without introducing third-party configuration libraries. It performs only
// minimal type coercion and returns the provided default when a key is absent
// or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Float returns the float64 value for key or def. JSON numbers decode as
// float64; int is accepted for convenience in hand-built Options.
func (o Options) Float(key string, def float64) float64 {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return def
}

// StringSlice returns a []string for key when the value is an array of
// strings (or an array of interface values containing strings). Returns nil
// when the key is missing or the value is not an array.
func (o Options) StringSlice(key string) []string {
	if v, ok := o[key]; ok {
		switch vv := v.(type) {
		case []any:
			out := make([]string, 0, len(vv))
			for _, x := range vv {
				if s, ok := x.(string); ok {
					out = append(out, s)
				}
			}
			return out
		case []string:
			return vv
		}
	}
	return nil
}

// StringMap returns a map[string]string for key when the value is an object
// whose values are strings. Non-string values are ignored.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		if m, ok := v.(map[string]any); ok {
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		}
	}
	return res
}

// UnmarshalJSON implements json.Unmarshaler so that a missing or null
// "options" object decodes to a non-nil, empty Options map. This removes the
// need to nil-check Options at call sites.
func (o *Options) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	var tmp map[string]any
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
