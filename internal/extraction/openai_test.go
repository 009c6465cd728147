package extraction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewOpenAICompleter(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: Config{
				APIKey:  "sk-test123",
				BaseURL: "https://api.openai.com",
				Model:   "gpt-4o-mini",
			},
			wantErr: false,
		},
		{
			name:    "empty API key",
			cfg:     Config{Model: "gpt-4o-mini"},
			wantErr: true,
		},
		{
			name:    "default baseURL and model",
			cfg:     Config{APIKey: "sk-test123"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer, err := newOpenAICompleter(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("newOpenAICompleter() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !completer.Available() {
				t.Error("completer.Available() = false, want true")
			}
		})
	}
}

func TestOpenAICompleter_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test123" {
			t.Errorf("Authorization = %q", got)
		}

		var req openAIRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %#v", req.Messages)
		}

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": `["a","b"]`}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	completer, err := newOpenAICompleter(Config{APIKey: "sk-test123", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("newOpenAICompleter() error = %v", err)
	}

	got, err := completer.Complete(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != `["a","b"]` {
		t.Errorf("Complete() = %q", got)
	}
}

func TestOpenAICompleter_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": `[]`}},
			},
		})
	}))
	defer server.Close()

	completer, err := newOpenAICompleter(Config{APIKey: "sk-test123", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("newOpenAICompleter() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := completer.Complete(ctx, "s", "u"); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("server called %d times, want 2", calls.Load())
	}
}

func TestOpenAICompleter_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "invalid api key", "type": "auth"},
		})
	}))
	defer server.Close()

	completer, err := newOpenAICompleter(Config{APIKey: "sk-bad", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("newOpenAICompleter() error = %v", err)
	}

	if _, err := completer.Complete(context.Background(), "s", "u"); err == nil {
		t.Fatal("Complete() expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("server called %d times, want 1 (client errors are not retried)", calls.Load())
	}
}

func TestNewCompleter(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantNil bool
		wantErr bool
	}{
		{name: "heuristic provider", cfg: Config{Provider: "heuristic"}, wantNil: true},
		{name: "disabled provider", cfg: Config{Provider: "disabled"}, wantNil: true},
		{name: "openai provider", cfg: Config{Provider: "openai", APIKey: "sk-x"}},
		{name: "openai without key", cfg: Config{Provider: "openai"}, wantErr: true},
		{name: "unknown provider", cfg: Config{Provider: "carrier-pigeon"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCompleter(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewCompleter() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if (c == nil) != tt.wantNil {
				t.Errorf("NewCompleter() = %v, wantNil %v", c, tt.wantNil)
			}
		})
	}
}
