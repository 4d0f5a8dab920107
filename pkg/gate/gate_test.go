package gate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ai-policyassist-be/pkg/llm"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeLLM struct {
	response   string
	err        error
	lastPrompt string
	calls      int
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.Generate(ctx, "", options...)
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

var testCatalog = map[string]string{
	"rag_query":      "Search policy documents",
	"weather_lookup": "Current weather for a location",
}

func TestClassifyParsesOracleOutput(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     Result
	}{
		{
			name:     "intent found",
			response: `{"is_followup": false, "intent_detected": true, "fallback_text": ""}`,
			want:     Result{IsFollowup: false, IntentDetected: true, FallbackText: ""},
		},
		{
			name:     "followup with intent",
			response: `{"is_followup": true, "intent_detected": true, "fallback_text": ""}`,
			want:     Result{IsFollowup: true, IntentDetected: true, FallbackText: ""},
		},
		{
			name:     "no intent with fallback",
			response: `{"is_followup": false, "intent_detected": false, "fallback_text": "Try asking about environmental policy."}`,
			want:     Result{IsFollowup: false, IntentDetected: false, FallbackText: "Try asking about environmental policy."},
		},
		{
			name:     "JSON wrapped in prose",
			response: "Sure, here is the classification:\n{\"is_followup\": true, \"intent_detected\": true, \"fallback_text\": \"\"}\nDone.",
			want:     Result{IsFollowup: true, IntentDetected: true, FallbackText: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGate(&fakeLLM{response: tt.response}, nopLogger{})
			got := g.Classify(context.Background(), nil, "query", testCatalog)
			if got != tt.want {
				t.Errorf("Classify() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestClassifyEmptyCatalogDecidesLocally(t *testing.T) {
	oracle := &fakeLLM{response: `{"intent_detected": true}`}
	g := NewGate(oracle, nopLogger{})

	got := g.Classify(context.Background(), nil, "query", map[string]string{})

	if oracle.calls != 0 {
		t.Errorf("oracle calls = %d, want 0 (empty catalog must short-circuit)", oracle.calls)
	}
	if got.IntentDetected {
		t.Error("IntentDetected = true, want false with empty catalog")
	}
	if strings.TrimSpace(got.FallbackText) == "" {
		t.Error("FallbackText is empty, want a non-empty user-facing reply")
	}
}

func TestClassifyFailsClosed(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{name: "oracle unreachable", err: errors.New("connection refused")},
		{name: "no JSON in output", response: "I cannot decide."},
		{name: "malformed JSON", response: `{"is_followup": maybe}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGate(&fakeLLM{response: tt.response, err: tt.err}, nopLogger{})
			got := g.Classify(context.Background(), nil, "query", testCatalog)

			if got.IsFollowup {
				t.Error("IsFollowup = true, want false when failing closed")
			}
			if got.IntentDetected {
				t.Error("IntentDetected = true, want false when failing closed")
			}
			if strings.TrimSpace(got.FallbackText) == "" {
				t.Error("FallbackText is empty, want a non-empty user-facing reply")
			}
		})
	}
}

func TestClassifySubstitutesEmptyFallback(t *testing.T) {
	g := NewGate(&fakeLLM{response: `{"is_followup": false, "intent_detected": false, "fallback_text": "  "}`}, nopLogger{})

	got := g.Classify(context.Background(), nil, "query", testCatalog)

	if strings.TrimSpace(got.FallbackText) == "" {
		t.Error("FallbackText is blank, want substitution when the oracle omits it")
	}
}

func TestClassifyPromptIncludesCatalogAndHistory(t *testing.T) {
	oracle := &fakeLLM{response: `{"is_followup": false, "intent_detected": true, "fallback_text": ""}`}
	g := NewGate(oracle, nopLogger{})

	history := []llm.Message{
		{Role: "user", Content: "What does WHO say about PM2.5?"},
		{Role: "assistant", Content: "The guideline value is 5 ug/m3 annual mean."},
	}
	g.Classify(context.Background(), history, "And for India?", testCatalog)

	for _, want := range []string{
		"rag_query: Search policy documents",
		"weather_lookup: Current weather for a location",
		"What does WHO say about PM2.5?",
		"And for India?",
	} {
		if !strings.Contains(oracle.lastPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"surrounded by text", `before {"a": 1} after`, `{"a": 1}`},
		{"no braces", "nothing here", ""},
		{"reversed braces", "} {", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.response); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.response, got, tt.want)
			}
		})
	}
}
