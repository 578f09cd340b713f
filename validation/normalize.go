package validation

import (
	"encoding/json"
	"fmt"
)

// NormalizeMCQShapes rewrites the legacy quiz payload shapes that older
// authoring clients produced into the canonical questions[] form, in place.
// Three shapes are recognized, checked in order:
//
//  1. canonical: data.questions is a non-empty array (left untouched)
//  2. flat: data.question + data.options at the top level of data
//  3. embedded: data.content is a JSON string that itself decodes to the
//     flat shape
//
// Anything else is left as-is for the validator to reject. Recovered
// payloads still pass through full validation afterward, so a recovery
// that produced an inconsistent question fails there rather than here.
// The returned notes name each template whose shape was rewritten.
func NormalizeMCQShapes(doc map[string]any) []string {
	templates, ok := doc["templates"].([]any)
	if !ok {
		return nil
	}

	var notes []string
	for _, raw := range templates {
		t, ok := raw.(map[string]any)
		if !ok || t["type"] != "mcq" {
			continue
		}
		data, ok := t["data"].(map[string]any)
		if !ok {
			continue
		}

		if qs, ok := data["questions"].([]any); ok && len(qs) > 0 {
			continue
		}

		tid, _ := t["id"].(string)
		if tid == "" {
			tid = "mcq"
		}

		if hasFlatQuestion(data) {
			content, _ := data["content"].(string)
			t["data"] = map[string]any{
				"content": content,
				"questions": []any{map[string]any{
					"id":       tid + "_q1",
					"question": data["question"],
					"options":  data["options"],
				}},
			}
			notes = append(notes, fmt.Sprintf("template %s: recovered flat question/options shape", tid))
			continue
		}

		if content, ok := data["content"].(string); ok {
			var parsed map[string]any
			if err := json.Unmarshal([]byte(content), &parsed); err == nil && hasFlatQuestion(parsed) {
				t["data"] = map[string]any{
					"content": "",
					"questions": []any{map[string]any{
						"id":       tid + "_q1",
						"question": parsed["question"],
						"options":  parsed["options"],
					}},
				}
				notes = append(notes, fmt.Sprintf("template %s: recovered question embedded in content", tid))
			}
		}
	}
	return notes
}

func hasFlatQuestion(data map[string]any) bool {
	q, ok := data["question"].(string)
	if !ok || q == "" {
		return false
	}
	opts, ok := data["options"].([]any)
	return ok && len(opts) > 0
}
