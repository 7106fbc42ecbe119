package openai

import "encoding/json"

// summarySchema is the structured-output contract for session summaries.
var summarySchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "summary": {"type": "string"},
    "key_actions": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "description": {"type": "string"},
          "status": {
            "type": "string",
            "enum": ["completed", "in_progress", "blocked", "planned"]
          }
        },
        "required": ["description", "status"],
        "additionalProperties": false
      }
    },
    "files_touched": {"type": "array", "items": {"type": "string"}},
    "concerns": {"type": "array", "items": {"type": "string"}},
    "follow_up": {"type": "array", "items": {"type": "string"}}
  },
  "required": ["summary", "key_actions", "files_touched", "concerns", "follow_up"],
  "additionalProperties": false
}`)
