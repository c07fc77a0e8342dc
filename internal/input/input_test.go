package input

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SingleJSON(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  any
	}{
		{
			name:  "object",
			token: `{"a":1}`,
			want:  map[string]any{"a": json.Number("1")},
		},
		{
			name:  "array",
			token: `[1, "two", null]`,
			want:  []any{json.Number("1"), "two", nil},
		},
		{
			name:  "number",
			token: "42",
			want:  json.Number("42"),
		},
		{
			name:  "large integer keeps precision",
			token: "9007199254740993",
			want:  json.Number("9007199254740993"),
		},
		{
			name:  "quoted string",
			token: `"x"`,
			want:  "x",
		},
		{
			name:  "bool",
			token: "true",
			want:  true,
		},
		{
			name:  "null",
			token: "null",
			want:  nil,
		},
		{
			name:  "surrounding whitespace",
			token: "  {\"a\": \"b\"}\n",
			want:  map[string]any{"a": "b"},
		},
		{
			name:  "quoted string containing equals",
			token: `"a=b"`,
			want:  "a=b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]string{tt.token})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_KeyValue(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   map[string]any
	}{
		{
			name:   "single pair that is not JSON",
			tokens: []string{"foo=bar"},
			want:   map[string]any{"foo": "bar"},
		},
		{
			name:   "number and string",
			tokens: []string{"a=1", "b=hello"},
			want:   map[string]any{"a": json.Number("1"), "b": "hello"},
		},
		{
			name:   "json values",
			tokens: []string{"ok=true", "tags=[\"x\",\"y\"]", "meta={\"k\":null}", "none=null"},
			want: map[string]any{
				"ok":   true,
				"tags": []any{"x", "y"},
				"meta": map[string]any{"k": nil},
				"none": nil,
			},
		},
		{
			name:   "split on first equals only",
			tokens: []string{"expr=a=b", "n=1"},
			want:   map[string]any{"expr": "a=b", "n": json.Number("1")},
		},
		{
			name:   "empty value stays an empty string",
			tokens: []string{"empty=", "n=2"},
			want:   map[string]any{"empty": "", "n": json.Number("2")},
		},
		{
			name:   "last duplicate wins",
			tokens: []string{"k=1", "k=2", "k=three"},
			want:   map[string]any{"k": "three"},
		},
		{
			name:   "partial json stays a string",
			tokens: []string{"v={\"a\":", "w=1 2"},
			want:   map[string]any{"v": "{\"a\":", "w": "1 2"},
		},
		{
			name:   "json tokens among several are still pairs",
			tokens: []string{"a=1", "b=2"},
			want:   map[string]any{"a": json.Number("1"), "b": json.Number("2")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.tokens)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_FormatError(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		bad    string
	}{
		{
			name:   "single token without equals",
			tokens: []string{"hello"},
			bad:    "hello",
		},
		{
			name:   "bad token after good ones",
			tokens: []string{"a=1", "b=2", "oops"},
			bad:    "oops",
		},
		{
			name:   "valid json among several tokens",
			tokens: []string{"a=1", `{"b":2}`},
			bad:    `{"b":2}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.tokens)
			require.Error(t, err)

			var fe *FormatError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.bad, fe.Token)
			assert.Contains(t, err.Error(), "Expected format: key=value")
		})
	}
}

func TestParse_NoData(t *testing.T) {
	_, err := Parse(nil)
	assert.ErrorIs(t, err, ErrNoData)
}
