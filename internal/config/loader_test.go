package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TejasKumarBoddu1/ava/internal/config"
)

func TestLoad_FromFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "ava.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("server.listen_addr: got %q, want %q", cfg.Server.ListenAddr, ":8080")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
	if !strings.Contains(err.Error(), "open") {
		t.Errorf("error should mention open, got: %v", err)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "ava.yaml")
	if err := os.WriteFile(path, []byte("server: [not a mapping"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := config.Load(path)
	if err == nil {
		t.Fatal("expected error for malformed yaml, got nil")
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  log_level: verbose
interview:
  resume_mode: instant
storage:
  kind: postgres
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected errors, got nil")
	}
	// All failures should be joined into one error.
	errStr := err.Error()
	if !strings.Contains(errStr, "log_level") {
		t.Errorf("error should mention log_level, got: %v", err)
	}
	if !strings.Contains(errStr, "resume_mode") {
		t.Errorf("error should mention resume_mode, got: %v", err)
	}
	if !strings.Contains(errStr, "postgres_dsn") {
		t.Errorf("error should mention postgres_dsn, got: %v", err)
	}
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	t.Parallel()
	if err := config.Validate(&config.Config{}); err != nil {
		t.Fatalf("zero config should validate, got: %v", err)
	}
}

func TestEnums_IsValid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		valid bool
		check func() bool
	}{
		{"log level info", true, config.LogInfo.IsValid},
		{"log level bogus", false, config.LogLevel("verbose").IsValid},
		{"backend grok", true, config.BackendGrok.IsValid},
		{"backend bogus", false, config.Backend("palm").IsValid},
		{"resume manual", true, config.ResumeManual.IsValid},
		{"resume bogus", false, config.ResumeMode("instant").IsValid},
		{"store memory", true, config.StoreMemory.IsValid},
		{"store bogus", false, config.StoreKind("redis").IsValid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(); got != tt.valid {
				t.Errorf("IsValid: got %v, want %v", got, tt.valid)
			}
		})
	}
}
