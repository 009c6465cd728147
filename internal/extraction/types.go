// Package extraction derives action items from free-form meeting notes.
// It supports both heuristic (pattern-based) and LLM-based extraction; the
// LLM path degrades to the heuristic path on any model or parse failure.
package extraction

import (
	"context"
	"time"
)

// Source identifies which path produced an extraction result.
type Source string

const (
	// SourceLLM means the items came from a successfully parsed model response.
	SourceLLM Source = "llm"
	// SourceHeuristic means the heuristic parser produced the items, either
	// by configuration or as a fallback.
	SourceHeuristic Source = "heuristic"
	// SourceEmpty means the input was empty and no extraction ran.
	SourceEmpty Source = "empty"
)

// Completer issues a single synchronous chat completion and returns the raw
// model text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)

	// Available returns true if the completer is configured and ready.
	Available() bool
}

// Config holds configuration for extraction operations.
type Config struct {
	// Provider selects the completion backend: "ollama" (default), "openai",
	// "heuristic", or "disabled". The last two skip the model entirely.
	Provider string `json:"provider"`

	Model     string        `json:"model,omitempty"`
	BaseURL   string        `json:"base_url,omitempty"`
	APIKey    string        `json:"api_key,omitempty"`
	MaxTokens int           `json:"max_tokens,omitempty"`
	Timeout   time.Duration `json:"timeout,omitempty"`
}

// DefaultConfig returns a default extraction configuration.
func DefaultConfig() Config {
	return Config{
		Provider:  "ollama",
		Model:     defaultOllamaModel,
		MaxTokens: defaultMaxTokens,
		Timeout:   defaultTimeout,
	}
}
