package ai

import (
	"encoding/json"
	"strings"

	"github.com/shylockwolf/ainote/internal/models"
)

// parseAnalysis decodes a model response into an AIAnalysis and validates
// it strictly at the gateway boundary: invalid JSON, an empty topic, or a
// category outside the closed set are all ParseErrors. Partially-typed
// values never leak past this point.
func parseAnalysis(raw string) (*models.AIAnalysis, error) {
	var analysis models.AIAnalysis

	candidate := strings.TrimSpace(raw)
	if err := json.Unmarshal([]byte(candidate), &analysis); err != nil {
		// Some models wrap the JSON object in prose or a code fence.
		trimmed := trimToJSONObject(candidate)
		if trimmed == "" {
			return nil, &ParseError{Message: "response is not a JSON object", Err: err}
		}
		if err := json.Unmarshal([]byte(trimmed), &analysis); err != nil {
			return nil, &ParseError{Message: "response is not valid JSON", Err: err}
		}
	}

	if strings.TrimSpace(analysis.Topic) == "" {
		return nil, &ParseError{Message: "analysis is missing a topic"}
	}
	if !models.ValidCategory(analysis.Category) {
		return nil, &ParseError{Message: "analysis category is not in the closed set: " + string(analysis.Category)}
	}
	if analysis.People == nil {
		analysis.People = []string{}
	}
	return &analysis, nil
}

// trimToJSONObject cuts raw down to the outermost {...} span, or returns
// the empty string when no such span exists.
func trimToJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return raw[start : end+1]
}
