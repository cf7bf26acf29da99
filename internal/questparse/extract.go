// Package questparse turns free-form generator output into a validated quest draft.
package questparse

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strings"
)

var fencedBlock = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)\\s*```")

// ExtractionError means no JSON object could be recovered from the text.
type ExtractionError struct {
	Raw string
	Err error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return "questparse: no JSON object in model output: " + e.Err.Error()
	}
	return "questparse: no JSON object in model output"
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

var (
	errNoObject  = errors.New("no {...} span found")
	errNotObject = errors.New("value is not a JSON object")
	errTrailing  = errors.New("unexpected data after object")
)

// Extract recovers a single JSON object from raw. A fenced code block wins
// over surrounding prose; otherwise the span from the first '{' to the last
// '}' is parsed. Numbers are kept as json.Number so integer checks stay exact.
func Extract(raw string) (map[string]any, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.TrimSpace(s)

	if m := fencedBlock.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return nil, &ExtractionError{Raw: raw, Err: errNoObject}
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(s[start : end+1])))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &ExtractionError{Raw: raw, Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &ExtractionError{Raw: raw, Err: errTrailing}
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &ExtractionError{Raw: raw, Err: errNotObject}
	}
	return obj, nil
}
