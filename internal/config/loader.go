package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// maxDurationMinutes caps the configurable default interview length.
const maxDurationMinutes = 120

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.TLS != nil {
		if cfg.Server.TLS.CertFile == "" {
			errs = append(errs, errors.New("server.tls.cert_file is required when tls is set"))
		}
		if cfg.Server.TLS.KeyFile == "" {
			errs = append(errs, errors.New("server.tls.key_file is required when tls is set"))
		}
	}

	// Providers
	if cfg.Providers.Default != "" && !cfg.Providers.Default.IsValid() {
		errs = append(errs, fmt.Errorf("providers.default %q is invalid; valid values: gemini, chatgpt, grok", cfg.Providers.Default))
	}
	if cfg.Providers.Gemini.APIKey == "" && cfg.Providers.ChatGPT.APIKey == "" && cfg.Providers.Grok.APIKey == "" {
		slog.Warn("no provider api_key configured; interviews will fail unless keys arrive via environment")
	}

	// Interview
	if cfg.Interview.DefaultDurationMinutes < 0 {
		errs = append(errs, fmt.Errorf("interview.default_duration_minutes %d is negative", cfg.Interview.DefaultDurationMinutes))
	}
	if cfg.Interview.DefaultDurationMinutes > maxDurationMinutes {
		errs = append(errs, fmt.Errorf("interview.default_duration_minutes %d exceeds the maximum of %d", cfg.Interview.DefaultDurationMinutes, maxDurationMinutes))
	}
	if cfg.Interview.ResumeMode != "" && !cfg.Interview.ResumeMode.IsValid() {
		errs = append(errs, fmt.Errorf("interview.resume_mode %q is invalid; valid values: auto, manual", cfg.Interview.ResumeMode))
	}
	if cfg.Interview.ResumeDelaySeconds < 0 {
		errs = append(errs, fmt.Errorf("interview.resume_delay_seconds %d is negative", cfg.Interview.ResumeDelaySeconds))
	}

	// Speech
	if cfg.Speech.MinTranscriptLength < 0 {
		errs = append(errs, fmt.Errorf("speech.min_transcript_length %d is negative", cfg.Speech.MinTranscriptLength))
	}
	if cfg.Speech.NearDupThreshold < 0 || cfg.Speech.NearDupThreshold > 1 {
		errs = append(errs, fmt.Errorf("speech.near_dup_threshold %.2f is out of range [0, 1]", cfg.Speech.NearDupThreshold))
	}

	// Storage
	if cfg.Storage.Kind != "" && !cfg.Storage.Kind.IsValid() {
		errs = append(errs, fmt.Errorf("storage.kind %q is invalid; valid values: memory, postgres", cfg.Storage.Kind))
	}
	if cfg.Storage.Kind == StorePostgres && cfg.Storage.PostgresDSN == "" {
		errs = append(errs, errors.New("storage.postgres_dsn is required when storage.kind is postgres"))
	}
	if cfg.Storage.Kind != StorePostgres && cfg.Storage.PostgresDSN != "" {
		slog.Warn("storage.postgres_dsn is set but storage.kind is not postgres; it will be ignored")
	}

	return errors.Join(errs...)
}
