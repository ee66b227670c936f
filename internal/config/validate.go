package config

import (
	"fmt"
	"strings"
)

// knownTransforms enumerates the transform kinds the pipeline can build.
// Keep in sync with pipeline.buildChain.
var knownTransforms = map[string]bool{
	"sanitize_names": true,
	"coerce_numeric": true,
	"project":        true,
}

// knownStorage enumerates the storage kinds compiled into the binary via
// storage/all.
var knownStorage = map[string]bool{
	"mysql":    true,
	"postgres": true,
	"mssql":    true,
	"sqlite":   true,
}

// Validate checks a decoded pipeline for structural problems before any I/O
// happens. It returns the first problem found.
func (p Pipeline) Validate() error {
	if strings.TrimSpace(p.Source.Path) == "" {
		return fmt.Errorf("config: source.path is required")
	}
	if len(p.Source.Delimiter) > 1 {
		return fmt.Errorf("config: source.delimiter must be a single character, got %q", p.Source.Delimiter)
	}

	for i, t := range p.Transform {
		if !knownTransforms[t.Kind] {
			return fmt.Errorf("config: transform[%d]: unknown kind %q", i, t.Kind)
		}
		if err := validateTransform(t); err != nil {
			return fmt.Errorf("config: transform[%d] (%s): %w", i, t.Kind, err)
		}
	}

	if !knownStorage[p.Storage.Kind] {
		return fmt.Errorf("config: storage.kind %q is not a registered backend", p.Storage.Kind)
	}
	if strings.TrimSpace(p.Storage.DSN) == "" {
		return fmt.Errorf("config: storage.dsn is required")
	}
	if strings.TrimSpace(p.Storage.Table) == "" {
		return fmt.Errorf("config: storage.table is required")
	}
	if p.Storage.BatchSize < 0 {
		return fmt.Errorf("config: storage.batch_size must be >= 0, got %d", p.Storage.BatchSize)
	}
	return nil
}

// validateTransform checks per-kind option constraints.
func validateTransform(t Transform) error {
	switch t.Kind {
	case "sanitize_names":
		switch mode := t.Options.String("mode", "strip"); mode {
		case "strip", "underscore":
		default:
			return fmt.Errorf("mode must be \"strip\" or \"underscore\", got %q", mode)
		}
	case "coerce_numeric":
		switch policy := t.Options.String("policy", "infer"); policy {
		case "infer":
			th := t.Options.Float("threshold", 0.8)
			if th <= 0 || th > 1 {
				return fmt.Errorf("threshold must be in (0, 1], got %v", th)
			}
		case "allowlist":
			if len(t.Options.StringSlice("columns")) == 0 {
				return fmt.Errorf("allowlist policy requires a non-empty columns list")
			}
		default:
			return fmt.Errorf("policy must be \"infer\" or \"allowlist\", got %q", policy)
		}
	case "project":
		if len(t.Options.StringSlice("columns")) == 0 {
			return fmt.Errorf("project requires a non-empty columns list")
		}
	}
	return nil
}
