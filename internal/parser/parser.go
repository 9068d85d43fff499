// Package parser recovers JSON payloads from raw model text. The upstream
// model inconsistently wraps structured output in markdown code fences, so
// extraction tries the fenced form first and degrades silently to parsing
// the whole response.
package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Matches a fenced code block, optionally tagged "json", capturing the body.
var fencedBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// MalformedResponseError reports that no valid JSON could be recovered from
// a model response. Raw carries the offending text for diagnostics.
type MalformedResponseError struct {
	Raw string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("no valid JSON in model response (%d bytes)", len(e.Raw))
}

// ExtractJSON recovers a JSON document from raw model text.
//
// It first looks for a fenced code block and attempts to parse its interior;
// a parse failure there is not an error, it falls through to parsing the
// entire trimmed text. Only when both attempts fail does it return a
// *MalformedResponseError.
func ExtractJSON(raw string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(raw)

	if m := fencedBlockRegex.FindStringSubmatch(trimmed); m != nil && m[1] != "" {
		if doc, ok := tryParse(m[1]); ok {
			return doc, nil
		}
	}

	if doc, ok := tryParse(trimmed); ok {
		return doc, nil
	}

	return nil, &MalformedResponseError{Raw: raw}
}

// Unmarshal extracts JSON from raw model text and decodes it into v.
// A payload that parses but does not fit v's shape surfaces the underlying
// json error; callers treat that the same as a malformed response.
func Unmarshal(raw string, v any) error {
	doc, err := ExtractJSON(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(doc, v)
}

func tryParse(s string) (json.RawMessage, bool) {
	var probe any
	if err := json.Unmarshal([]byte(s), &probe); err != nil {
		return nil, false
	}
	return json.RawMessage(s), true
}
