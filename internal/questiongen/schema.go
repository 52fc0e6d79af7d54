package questiongen

import "github.com/ktnk/toeiq/internal/llm"

// DraftSchema defines the JSON shape of the first generation pass.
var DraftSchema = &llm.Schema{
	Name:        "part5-drafts",
	Description: "A batch of draft TOEIC Part 5 questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type": map[string]any{
							"type": "string",
							"enum": []any{"grammar", "partOfSpeech", "vocabulary"},
						},
						"prompt": map[string]any{
							"type":        "string",
							"description": "The sentence with a (____) blank",
						},
						"choices": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Exactly 4 options; choices[0] is correct",
						},
					},
					"required": []any{"type", "prompt", "choices"},
				},
			},
		},
		"required": []any{"questions"},
	},
}

// VerifiedSchema defines the JSON shape of the verification pass. The
// choices field is optional; when present it replaces the draft options.
var VerifiedSchema = &llm.Schema{
	Name:        "part5-verified",
	Description: "Repaired and enriched TOEIC Part 5 questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"verified": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"index": map[string]any{
							"type":        "integer",
							"description": "0-based index into the input batch",
						},
						"type":   map[string]any{"type": "string"},
						"prompt": map[string]any{"type": "string"},
						"choices": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Japanese explanation of the answer and distractors",
						},
						"filled_sentence":    map[string]any{"type": "string"},
						"filled_sentence_ja": map[string]any{"type": "string"},
						"choice_translations_ja": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
					"required": []any{"index", "explanation"},
				},
			},
		},
		"required": []any{"verified"},
	},
}
