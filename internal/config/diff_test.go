package config_test

import (
	"testing"

	"github.com/TejasKumarBoddu1/ava/internal/config"
)

func TestDiff_NoChanges(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{
		Server:    config.ServerConfig{LogLevel: config.LogInfo},
		Interview: config.InterviewConfig{DefaultDurationMinutes: 15},
	}
	d := config.Diff(cfg, cfg)
	if d.Any() {
		t.Errorf("expected no changes for identical configs, got %+v", d)
	}
}

func TestDiff_LogLevelChanged(t *testing.T) {
	t.Parallel()
	old := &config.Config{Server: config.ServerConfig{LogLevel: config.LogInfo}}
	new := &config.Config{Server: config.ServerConfig{LogLevel: config.LogDebug}}

	d := config.Diff(old, new)
	if !d.LogLevelChanged {
		t.Error("expected LogLevelChanged=true")
	}
	if d.NewLogLevel != config.LogDebug {
		t.Errorf("expected NewLogLevel=debug, got %q", d.NewLogLevel)
	}
	if d.InterviewChanged || d.SpeechChanged || d.ProvidersChanged {
		t.Error("only the log level should be flagged")
	}
}

func TestDiff_InterviewChanged(t *testing.T) {
	t.Parallel()
	old := &config.Config{Interview: config.InterviewConfig{ResumeMode: config.ResumeAuto}}
	new := &config.Config{Interview: config.InterviewConfig{ResumeMode: config.ResumeManual}}

	d := config.Diff(old, new)
	if !d.InterviewChanged {
		t.Error("expected InterviewChanged=true")
	}
	if d.LogLevelChanged {
		t.Error("expected LogLevelChanged=false")
	}
}

func TestDiff_SpeechChanged(t *testing.T) {
	t.Parallel()
	old := &config.Config{Speech: config.SpeechConfig{MinTranscriptLength: 2}}
	new := &config.Config{Speech: config.SpeechConfig{MinTranscriptLength: 5}}

	d := config.Diff(old, new)
	if !d.SpeechChanged {
		t.Error("expected SpeechChanged=true")
	}
}

func TestDiff_ProvidersChanged(t *testing.T) {
	t.Parallel()
	old := &config.Config{Providers: config.ProvidersConfig{Default: config.BackendGemini}}
	new := &config.Config{Providers: config.ProvidersConfig{Default: config.BackendGrok}}

	d := config.Diff(old, new)
	if !d.ProvidersChanged {
		t.Error("expected ProvidersChanged=true")
	}
}

func TestDiff_ServerAddrIgnored(t *testing.T) {
	t.Parallel()
	// Address changes need a restart and must not surface as hot-reloadable.
	old := &config.Config{Server: config.ServerConfig{ListenAddr: ":8080"}}
	new := &config.Config{Server: config.ServerConfig{ListenAddr: ":9090"}}

	d := config.Diff(old, new)
	if d.Any() {
		t.Errorf("address change should not be tracked, got %+v", d)
	}
}

func TestDiff_MultipleChanges(t *testing.T) {
	t.Parallel()
	old := &config.Config{
		Server:    config.ServerConfig{LogLevel: config.LogInfo},
		Providers: config.ProvidersConfig{Gemini: config.ProviderEntry{Model: "gemini-1.5-pro"}},
	}
	new := &config.Config{
		Server:    config.ServerConfig{LogLevel: config.LogWarn},
		Providers: config.ProvidersConfig{Gemini: config.ProviderEntry{Model: "gemini-2.0-flash"}},
	}

	d := config.Diff(old, new)
	if !d.LogLevelChanged {
		t.Error("expected LogLevelChanged=true")
	}
	if !d.ProvidersChanged {
		t.Error("expected ProvidersChanged=true")
	}
	if !d.Any() {
		t.Error("expected Any=true")
	}
}
