package extraction

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/schema"
)

const defaultOllamaModel = "llama3.2"

// ollamaCompleter implements Completer against a local Ollama server via
// langchaingo. This is the default provider: extraction works out of the box
// without any API key.
type ollamaCompleter struct {
	llm   *ollama.LLM
	model string
}

// newOllamaCompleter creates an Ollama-backed completer.
func newOllamaCompleter(cfg Config) (Completer, error) {
	model := cfg.Model
	if model == "" {
		model = defaultOllamaModel
	}

	opts := []ollama.Option{ollama.WithModel(model)}
	if cfg.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
	}

	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}

	return &ollamaCompleter{llm: llm, model: model}, nil
}

// Complete issues a single chat completion and returns the raw model text.
func (o *ollamaCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := o.llm.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(schema.ChatMessageTypeSystem, system),
			llms.TextParts(schema.ChatMessageTypeHuman, user),
		},
		llms.WithTemperature(0.2), // Low temperature for consistent extraction
	)
	if err != nil {
		return "", fmt.Errorf("ollama completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from ollama")
	}
	return resp.Choices[0].Content, nil
}

// Available returns true once the client is constructed; Ollama needs no key.
func (o *ollamaCompleter) Available() bool {
	return o.llm != nil
}

var _ Completer = (*ollamaCompleter)(nil)
