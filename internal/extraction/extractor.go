package extraction

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Extractor derives action items from text, preferring the model-backed path
// and degrading to the heuristic parser when the model is unavailable, errors,
// times out, or returns output that does not satisfy the contract. The caller
// never sees an error from extraction; it only sees which Source produced the
// result.
type Extractor struct {
	completer Completer
	heuristic *HeuristicExtractor
	timeout   time.Duration
	logger    *zap.Logger
}

// NewExtractor creates an extractor. completer may be nil, in which case every
// extraction uses the heuristic path. logger may be nil.
func NewExtractor(completer Completer, timeout time.Duration, logger *zap.Logger) *Extractor {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		completer: completer,
		heuristic: NewHeuristicExtractor(),
		timeout:   timeout,
		logger:    logger,
	}
}

// Extract returns the action items derived from text, in order, together with
// the source that produced them. Empty or whitespace-only input returns an
// empty list without invoking the model.
func (e *Extractor) Extract(ctx context.Context, text string) ([]string, Source) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return []string{}, SourceEmpty
	}

	if e.completer == nil || !e.completer.Available() {
		return e.heuristic.Extract(trimmed), SourceHeuristic
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.completer.Complete(ctx, systemPrompt, buildUserPrompt(trimmed))
	if err != nil {
		e.logger.Debug("model completion failed, using heuristic fallback", zap.Error(err))
		return e.heuristic.Extract(trimmed), SourceHeuristic
	}

	items, err := parseItemList(raw)
	if err != nil {
		e.logger.Debug("model response unparseable, using heuristic fallback", zap.Error(err))
		return e.heuristic.Extract(trimmed), SourceHeuristic
	}

	return items, SourceLLM
}
