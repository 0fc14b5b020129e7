package analysis

import (
	"encoding/json"
	"strings"
)

const (
	jsonFence             = "```json"
	genericFence          = "```"
	rawResponsePreviewLen = 500
	minConfidence         = 70
)

var requiredKeys = []string{"provider", "detected_components", "complexity", "estimated_monthly_cost"}

// Extract locates a JSON object inside arbitrary model text and parses it
// into a Result. It never fails: malformed or incomplete output degrades
// into a valid-shaped default carrying the error and a truncated copy of
// the raw text.
//
// Payload selection is an ordered heuristic chain, first match wins:
//  1. a fenced block tagged json
//  2. any generic fenced block
//  3. the whole trimmed text
func Extract(raw string) *Result {
	payload := selectPayload(raw)

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &probe); err != nil {
		return failureResult(raw)
	}
	for _, key := range requiredKeys {
		if _, ok := probe[key]; !ok {
			return failureResult(raw)
		}
	}

	var result Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return failureResult(raw)
	}

	if result.DetectedComponents == nil {
		result.DetectedComponents = []DetectedComponent{}
	}
	if result.Connections == nil {
		result.Connections = []Connection{}
	}
	result.DetectedComponents = filterLowConfidence(result.DetectedComponents)
	return &result
}

func selectPayload(raw string) string {
	if start := strings.Index(raw, jsonFence); start >= 0 {
		return fencedBody(raw, start+len(jsonFence))
	}
	if start := strings.Index(raw, genericFence); start >= 0 {
		return fencedBody(raw, start+len(genericFence))
	}
	return strings.TrimSpace(raw)
}

func fencedBody(raw string, start int) string {
	rest := raw[start:]
	if end := strings.Index(rest, genericFence); end >= 0 {
		return strings.TrimSpace(rest[:end])
	}
	// unterminated fence, take everything after the opener
	return strings.TrimSpace(rest)
}

// filterLowConfidence drops components below the confidence floor the
// analysis prompt asks the model to apply. The model is trusted to filter,
// this is a local backstop.
func filterLowConfidence(components []DetectedComponent) []DetectedComponent {
	kept := components[:0]
	for _, c := range components {
		if c.Confidence >= minConfidence {
			kept = append(kept, c)
		}
	}
	return kept
}

func failureResult(raw string) *Result {
	return &Result{
		Provider:             "aws",
		DetectedComponents:   []DetectedComponent{},
		Complexity:           "medium",
		EstimatedMonthlyCost: 0,
		Connections:          []Connection{},
		Error:                "Failed to parse AI response",
		RawResponse:          truncateRunes(raw, rawResponsePreviewLen),
	}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
