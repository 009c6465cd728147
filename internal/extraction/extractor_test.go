package extraction

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"
)

// fakeCompleter records calls and returns a canned response or error.
type fakeCompleter struct {
	response string
	err      error
	calls    int
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeCompleter) Available() bool { return true }

func TestExtractor_WellFormedResponse(t *testing.T) {
	fake := &fakeCompleter{response: `["Set up CI pipeline", "Review pull requests"]`}
	e := NewExtractor(fake, time.Second, nil)

	items, source := e.Extract(context.Background(), "Meeting notes:\n- Set up CI pipeline\n- Review pull requests")

	if source != SourceLLM {
		t.Errorf("source = %q, want %q", source, SourceLLM)
	}
	want := []string{"Set up CI pipeline", "Review pull requests"}
	if !reflect.DeepEqual(items, want) {
		t.Errorf("items = %#v, want %#v", items, want)
	}
	if fake.calls != 1 {
		t.Errorf("completer called %d times, want 1", fake.calls)
	}
}

func TestExtractor_FencedResponse(t *testing.T) {
	fake := &fakeCompleter{response: "```json\n[\"a\",\"b\"]\n```"}
	e := NewExtractor(fake, time.Second, nil)

	items, source := e.Extract(context.Background(), "some notes")

	if source != SourceLLM {
		t.Errorf("source = %q, want %q", source, SourceLLM)
	}
	if !reflect.DeepEqual(items, []string{"a", "b"}) {
		t.Errorf("items = %#v, want [a b]", items)
	}
}

func TestExtractor_EmptyInputSkipsModel(t *testing.T) {
	fake := &fakeCompleter{response: `["never used"]`}
	e := NewExtractor(fake, time.Second, nil)

	for _, text := range []string{"", "   ", "\n\t\n"} {
		items, source := e.Extract(context.Background(), text)
		if len(items) != 0 {
			t.Errorf("Extract(%q) = %#v, want empty", text, items)
		}
		if source != SourceEmpty {
			t.Errorf("Extract(%q) source = %q, want %q", text, source, SourceEmpty)
		}
	}
	if fake.calls != 0 {
		t.Errorf("completer called %d times for empty input, want 0", fake.calls)
	}
}

func TestExtractor_FallbackOnMalformedResponse(t *testing.T) {
	text := "Notes:\n- [ ] Set up database\nTODO: write spec\nNothing actionable here."

	tests := []struct {
		name string
		fake *fakeCompleter
	}{
		{name: "non-json response", fake: &fakeCompleter{response: "I could not find any items, sorry!"}},
		{name: "json object response", fake: &fakeCompleter{response: `{"items":["a"]}`}},
		{name: "null response", fake: &fakeCompleter{response: `null`}},
		{name: "model error", fake: &fakeCompleter{err: fmt.Errorf("connection refused")}},
	}

	heuristic := NewHeuristicExtractor().Extract(text)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtractor(tt.fake, time.Second, nil)
			items, source := e.Extract(context.Background(), text)

			if source != SourceHeuristic {
				t.Errorf("source = %q, want %q", source, SourceHeuristic)
			}
			// The fallback output must equal the heuristic output on the same text.
			if !reflect.DeepEqual(items, heuristic) {
				t.Errorf("items = %#v, want heuristic output %#v", items, heuristic)
			}
		})
	}
}

func TestExtractor_EmptyArrayIsValid(t *testing.T) {
	// A well-formed empty array is a legitimate model answer, not a failure.
	fake := &fakeCompleter{response: `[]`}
	e := NewExtractor(fake, time.Second, nil)

	items, source := e.Extract(context.Background(), "- this line would match heuristically")

	if source != SourceLLM {
		t.Errorf("source = %q, want %q", source, SourceLLM)
	}
	if len(items) != 0 {
		t.Errorf("items = %#v, want empty", items)
	}
}

func TestExtractor_NilCompleterUsesHeuristic(t *testing.T) {
	e := NewExtractor(nil, time.Second, nil)

	items, source := e.Extract(context.Background(), "- buy milk")

	if source != SourceHeuristic {
		t.Errorf("source = %q, want %q", source, SourceHeuristic)
	}
	if !reflect.DeepEqual(items, []string{"buy milk"}) {
		t.Errorf("items = %#v, want [buy milk]", items)
	}
}
