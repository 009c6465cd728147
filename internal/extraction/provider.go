package extraction

import "fmt"

// NewCompleter creates a completion client based on configuration.
// Returns nil (and no error) for the "heuristic" and "disabled" providers;
// the extractor then uses the heuristic path exclusively.
func NewCompleter(cfg Config) (Completer, error) {
	switch cfg.Provider {
	case "", "ollama":
		return newOllamaCompleter(cfg)
	case "openai":
		return newOpenAICompleter(cfg)
	case "heuristic", "disabled":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}
