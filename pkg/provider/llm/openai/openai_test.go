package openai

import (
	"testing"

	"github.com/TejasKumarBoddu1/ava/pkg/provider/llm"
)

// TestConvertMessage_System checks that system role is converted correctly.
func TestConvertMessage_System(t *testing.T) {
	param, err := convertMessage(llm.Message{Role: llm.RoleSystem, Content: "You are an interviewer."})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if param.OfSystem == nil {
		t.Fatal("expected OfSystem to be set")
	}
}

// TestConvertMessage_User checks that user role is converted correctly.
func TestConvertMessage_User(t *testing.T) {
	param, err := convertMessage(llm.Message{Role: llm.RoleUser, Content: "Hello!"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if param.OfUser == nil {
		t.Fatal("expected OfUser to be set")
	}
}

// TestConvertMessage_Assistant checks that assistant role is converted.
func TestConvertMessage_Assistant(t *testing.T) {
	param, err := convertMessage(llm.Message{Role: llm.RoleAssistant, Content: "Tell me about a project you led."})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if param.OfAssistant == nil {
		t.Fatal("expected OfAssistant to be set")
	}
}

// TestConvertMessage_UnknownRole checks that unknown roles return an error.
func TestConvertMessage_UnknownRole(t *testing.T) {
	_, err := convertMessage(llm.Message{Role: "tool", Content: "test"})
	if err == nil {
		t.Fatal("expected error for unknown role, got nil")
	}
}

// TestModelCapabilities covers OpenAI and Grok model families plus defaults.
func TestModelCapabilities(t *testing.T) {
	tests := []struct {
		model         string
		wantContext   int
		wantMaxOutput int
	}{
		{"gpt-4o-mini", 128_000, 16_384},
		{"gpt-4o", 128_000, 16_384},
		{"gpt-4", 8_192, 4_096},
		{"gpt-3.5-turbo", 16_385, 4_096},
		{"grok-2-latest", 131_072, 4_096},
		{"grok-beta", 131_072, 4_096},
		{"grok-3", 131_072, 8_192},
		{"my-custom-model", 128_000, 4_096},
	}

	for _, tc := range tests {
		t.Run(tc.model, func(t *testing.T) {
			caps := modelCapabilities(tc.model)
			if caps.ContextWindow != tc.wantContext {
				t.Errorf("ContextWindow: want %d, got %d", tc.wantContext, caps.ContextWindow)
			}
			if caps.MaxOutputTokens != tc.wantMaxOutput {
				t.Errorf("MaxOutputTokens: want %d, got %d", tc.wantMaxOutput, caps.MaxOutputTokens)
			}
			if !caps.SupportsStreaming {
				t.Error("expected SupportsStreaming=true")
			}
		})
	}
}

// TestCountTokens_Estimation checks that token counting returns a reasonable value.
func TestCountTokens_Estimation(t *testing.T) {
	p := &Provider{model: "grok-2-latest"}
	msgs := []llm.Message{
		{Role: llm.RoleUser, Content: "Hello world"}, // 11 chars → ~3 tokens + 4 overhead = 7
	}
	count, err := p.CountTokens(msgs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count <= 0 {
		t.Errorf("expected positive token count, got %d", count)
	}
}

// TestNew_MissingAPIKey ensures constructor rejects an empty API key.
func TestNew_MissingAPIKey(t *testing.T) {
	_, err := New("", "gpt-4o")
	if err == nil {
		t.Fatal("expected error for empty API key")
	}
}

// TestNew_MissingModel ensures constructor rejects an empty model.
func TestNew_MissingModel(t *testing.T) {
	_, err := New("sk-test", "")
	if err == nil {
		t.Fatal("expected error for empty model")
	}
}

// TestNew_Options checks that optional settings are accepted without error.
func TestNew_Options(t *testing.T) {
	_, err := New("sk-test", "gpt-4o",
		WithBaseURL("https://custom.example.com"),
		WithOrganization("org-123"),
	)
	if err != nil {
		t.Fatalf("unexpected error with valid options: %v", err)
	}
}

// TestNewGrok checks the Grok constructor accepts a key and model.
func TestNewGrok(t *testing.T) {
	p, err := NewGrok("xai-test", "grok-2-latest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil {
		t.Fatal("expected non-nil provider")
	}
}
