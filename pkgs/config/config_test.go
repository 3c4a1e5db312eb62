package config_test

import (
	"testing"

	"github.com/loomscript/loom/pkgs/config"
)

func TestParseValidYAML(t *testing.T) {
	cfg, err := config.Parse([]byte("source: app.uidsl\nformat: cbor\nstrict: true\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Source != "app.uidsl" {
		t.Errorf("got Source %q, want %q", cfg.Source, "app.uidsl")
	}
	if cfg.Format != "cbor" {
		t.Errorf("got Format %q, want %q", cfg.Format, "cbor")
	}
	if !cfg.Strict {
		t.Error("expected Strict to be true")
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := config.Parse([]byte("source: app.uidsl\nunknownField: true\n"))
	if err == nil {
		t.Fatal("expected a validation error for an unrecognized field")
	}
}

func TestParseRejectsBadFormatEnum(t *testing.T) {
	_, err := config.Parse([]byte("format: xml\n"))
	if err == nil {
		t.Fatal("expected a validation error for an unrecognized format")
	}
}

func TestParseRejectsOutOfRangeSchemaVersion(t *testing.T) {
	_, err := config.Parse([]byte("schemaVersion: v2.0.0\n"))
	if err == nil {
		t.Fatal("expected an error for a schemaVersion outside the supported range")
	}
}

func TestParseAcceptsInRangeSchemaVersion(t *testing.T) {
	_, err := config.Parse([]byte("schemaVersion: v1.2.0\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadMissingFileReturnsZeroConfig(t *testing.T) {
	cfg, err := config.Load("/nonexistent/uidsl.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Source != "" {
		t.Errorf("expected a zero-value Config, got %+v", cfg)
	}
}
