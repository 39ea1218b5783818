package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Result is the outcome of one extraction run: either the decoded receipt
// data, or a parse-failure record carrying "error" and "raw_response" keys.
// Callers branch on Failed rather than on an error return, because a reply
// that isn't valid JSON is an expected outcome, not an exceptional one.
type Result map[string]any

// Failed reports whether r is a parse-failure record rather than extracted
// receipt data.
func (r Result) Failed() bool {
	_, ok := r["error"]
	return ok
}

// RawResponse returns the fence-stripped reply text preserved in a
// parse-failure record, or "" for a successful result.
func (r Result) RawResponse() string {
	raw, _ := r["raw_response"].(string)
	return raw
}

// Parse recovers a structured result from the model's raw reply text. It
// trims whitespace, strips a single leading ```json or bare ``` marker and a
// single trailing ``` marker, then decodes the remainder as JSON. The decoded
// document is returned unmodified; no validation against the requested schema
// is performed. Parse never fails: invalid JSON yields a failure record that
// preserves the stripped text for debugging.
func Parse(raw string) Result {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, fence+"json") {
		text = text[len(fence+"json"):]
	} else if strings.HasPrefix(text, fence) {
		text = text[len(fence):]
	}
	text = strings.TrimSuffix(text, fence)
	text = strings.TrimSpace(text)

	var result Result
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return Result{
			"error":        fmt.Sprintf("Failed to parse JSON response: %v", err),
			"raw_response": text,
		}
	}
	return result
}
