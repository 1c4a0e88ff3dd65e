package ai

import "encoding/json"

// JSON schemas for the function-call channel. The gateway is forced to
// answer through these via tool_choice; free text in the completion is
// never trusted.

var analyzeNoteParams = json.RawMessage(`{
	"type": "object",
	"properties": {
		"tags": {
			"type": "array",
			"items": {"type": "string"},
			"description": "List of relevant tags (max 5)"
		},
		"tasks": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"title": {"type": "string"},
					"description": {"type": "string"},
					"priority": {"type": "string", "enum": ["low", "medium", "high"]}
				},
				"required": ["title", "priority"]
			}
		},
		"has_tasks": {
			"type": "boolean",
			"description": "Whether the note contains actionable tasks"
		}
	},
	"required": ["tags", "tasks", "has_tasks"],
	"additionalProperties": false
}`)

var analyzeBrainParams = json.RawMessage(`{
	"type": "object",
	"properties": {
		"themes": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"name": {"type": "string", "description": "Theme name"},
					"noteIndices": {"type": "array", "items": {"type": "number"}, "description": "Indices of related notes"},
					"description": {"type": "string", "description": "Description of the theme"}
				},
				"required": ["name", "noteIndices", "description"]
			},
			"description": "Key themes found in the notes"
		},
		"connections": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"noteIndices": {"type": "array", "items": {"type": "number"}, "description": "Connected note indices"},
					"relationship": {"type": "string", "description": "How these notes are connected"}
				},
				"required": ["noteIndices", "relationship"]
			},
			"description": "Connections between different notes"
		},
		"insights": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"title": {"type": "string", "description": "Insight title"},
					"description": {"type": "string", "description": "Detailed insight"},
					"priority": {"type": "string", "enum": ["high", "medium", "low"], "description": "Priority level"}
				},
				"required": ["title", "description", "priority"]
			},
			"description": "Actionable insights and recommendations"
		},
		"summary": {
			"type": "string",
			"description": "Overall summary of the analysis"
		}
	},
	"required": ["themes", "connections", "insights", "summary"]
}`)
