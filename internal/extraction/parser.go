package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseItemList parses a raw model response into a list of action-item texts.
// The response may be wrapped in a markdown code fence; any such fencing is
// stripped before parsing. The payload must be a JSON array of strings.
//
// The error return is the explicit "parse failed" variant: callers branch on
// it to decide whether to fall back to the heuristic extractor. Parse failure
// is an expected condition here, not an exceptional one.
func parseItemList(raw string) ([]string, error) {
	cleaned := stripCodeFence(strings.TrimSpace(raw))
	if cleaned == "" {
		return nil, fmt.Errorf("empty model response")
	}
	// json.Unmarshal accepts a literal null into a slice without error, so
	// require an array opener up front.
	if !strings.HasPrefix(cleaned, "[") {
		return nil, fmt.Errorf("response is not a JSON array")
	}

	var parsed []string
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("response is not a JSON array of strings: %w", err)
	}

	items := make([]string, 0, len(parsed))
	for _, item := range parsed {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items, nil
}

// stripCodeFence removes markdown code block wrappers (```json ... ```).
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	// Remove first line (```json or ```)
	if len(lines) > 0 {
		lines = lines[1:]
	}
	// Remove last line if it's a closing fence
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
