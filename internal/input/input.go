// Package input turns the positional data arguments of the store command
// into a single JSON value.
package input

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoData is returned when no data tokens were supplied.
var ErrNoData = errors.New("no data given")

// FormatError reports a data token that is neither a JSON document nor a
// key=value pair.
type FormatError struct {
	Token string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid key=value pair: '%s'. Expected format: key=value", e.Token)
}

// Parse normalizes the data tokens.
//
// A single token holding any valid JSON value is returned as that value and
// is never read as key=value, even when it would split on '='. In every other
// case each token must be a key=value pair and the result is a
// map[string]any; values that parse as JSON keep their JSON type, the rest
// are kept as strings. A repeated key keeps its last value.
func Parse(tokens []string) (any, error) {
	if len(tokens) == 0 {
		return nil, ErrNoData
	}

	if len(tokens) == 1 {
		if v, ok := decodeJSON(tokens[0]); ok {
			return v, nil
		}
	}

	out := make(map[string]any, len(tokens))
	for _, token := range tokens {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			return nil, &FormatError{Token: token}
		}

		if v, ok := decodeJSON(value); ok {
			out[key] = v
		} else {
			out[key] = value
		}
	}

	return out, nil
}

// decodeJSON reports whether s is exactly one JSON value, surrounding
// whitespace allowed. Numbers stay json.Number so they are re-encoded
// without float rounding.
func decodeJSON(s string) (any, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}

	return v, true
}
