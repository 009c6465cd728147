package extraction

import (
	"reflect"
	"testing"
)

func TestParseItemList(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{
			name: "plain array",
			raw:  `["Set up CI pipeline", "Review pull requests"]`,
			want: []string{"Set up CI pipeline", "Review pull requests"},
		},
		{
			name: "fenced with language tag",
			raw:  "```json\n[\"a\",\"b\"]\n```",
			want: []string{"a", "b"},
		},
		{
			name: "fenced without language tag",
			raw:  "```\n[\"a\"]\n```",
			want: []string{"a"},
		},
		{
			name: "items trimmed and empties dropped",
			raw:  `["  padded  ", "", "   ", "kept"]`,
			want: []string{"padded", "kept"},
		},
		{
			name: "empty array is a valid result",
			raw:  `[]`,
			want: []string{},
		},
		{
			name: "surrounding whitespace",
			raw:  "  \n[\"x\"]\n  ",
			want: []string{"x"},
		},
		{
			name:    "empty response",
			raw:     "",
			wantErr: true,
		},
		{
			name:    "not json",
			raw:     "Here are your action items: buy milk",
			wantErr: true,
		},
		{
			name:    "null payload",
			raw:     `null`,
			wantErr: true,
		},
		{
			name:    "fenced null payload",
			raw:     "```json\nnull\n```",
			wantErr: true,
		},
		{
			name:    "json object instead of array",
			raw:     `{"items": ["a"]}`,
			wantErr: true,
		},
		{
			name:    "array of non-strings",
			raw:     `[1, 2, 3]`,
			wantErr: true,
		},
		{
			name:    "mixed array",
			raw:     `["a", 2]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseItemList(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseItemList() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseItemList() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "no fence", in: `["a"]`, want: `["a"]`},
		{name: "json fence", in: "```json\n[\"a\"]\n```", want: `["a"]`},
		{name: "bare fence", in: "```\n[\"a\"]\n```", want: `["a"]`},
		{name: "unterminated fence", in: "```json\n[\"a\"]", want: `["a"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFence(tt.in); got != tt.want {
				t.Errorf("stripCodeFence() = %q, want %q", got, tt.want)
			}
		})
	}
}
