package extraction

import (
	"regexp"
	"strings"
)

// HeuristicExtractor derives action items from text using lexical line rules.
// It is fully deterministic, makes no external calls, and never fails.
type HeuristicExtractor struct {
	rules    []lineRule
	checkbox *regexp.Regexp
}

// lineRule captures the item text in its first submatch group.
type lineRule struct {
	name  string
	regex *regexp.Regexp
}

// defaultRules recognize the common ways people mark to-dos in meeting notes.
// A line matching several rules is captured once, by the first rule that
// matches, with its marker stripped.
var defaultRules = []lineRule{
	// - item, * item (an optional checkbox token after the bullet is stripped separately)
	{name: "bullet", regex: regexp.MustCompile(`^[-*]\s+(.*)$`)},
	// 1. item, 2) item; whitespace after the marker is required so decimal
	// numbers in narrative text (3.5) are not mistaken for list markers
	{name: "numbered", regex: regexp.MustCompile(`^\d+[.)]\s+(.*)$`)},
	// TODO: item, Action: item, Action item: item, FIXME: item, Task: item
	{name: "keyword", regex: regexp.MustCompile(`(?i)^(?:todo|action item|action|fixme|task)\s*:\s*(.*)$`)},
}

// checkboxToken matches a leading [ ] / [x] / [X]. Only the text after it is
// kept; the checked state is not persisted.
var checkboxToken = regexp.MustCompile(`^\[[ xX]\]\s*`)

// NewHeuristicExtractor creates a heuristic extractor with the default rules.
func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{rules: defaultRules, checkbox: checkboxToken}
}

// Extract returns the action-item texts found in text, in line order.
// Lines matching no rule are discarded; whitespace-only remainders after
// marker stripping are discarded. The result may be empty, never nil.
func (h *HeuristicExtractor) Extract(text string) []string {
	items := []string{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		for _, rule := range h.rules {
			m := rule.regex.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			item := m[1]
			if rule.name == "bullet" {
				item = h.checkbox.ReplaceAllString(item, "")
			}
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
			break
		}
	}

	return items
}
