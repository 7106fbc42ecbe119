package corpus

import (
	"encoding/json"
	"strings"

	"github.com/bnema/codextendo/internal/domain"
)

// payload is the union of fields the known transcript payload types
// carry. raw keeps the undecoded object for the JSON fallbacks.
type payload struct {
	Type      string `json:"type"`
	Role      string `json:"role"`
	Timestamp string `json:"timestamp"`
	Content   []struct {
		Text string `json:"text"`
	} `json:"content"`
	Message          string          `json:"message"`
	Text             string          `json:"text"`
	Summary          json.RawMessage `json:"summary"`
	EncryptedContent string          `json:"encrypted_content"`
	Name             string          `json:"name"`
	Arguments        json.RawMessage `json:"arguments"`
	CallID           string          `json:"call_id"`
	Output           json.RawMessage `json:"output"`
	Info             json.RawMessage `json:"info"`
	RateLimits       json.RawMessage `json:"rate_limits"`

	raw map[string]json.RawMessage
}

func decodePayload(data json.RawMessage) (payload, bool) {
	if len(data) == 0 {
		return payload{}, false
	}

	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return payload{}, false
	}
	if err := json.Unmarshal(data, &p.raw); err != nil {
		p.raw = nil
	}

	return p, true
}

// asMessage extracts the conversational form of a payload for search:
// role-bearing message types only.
func (p payload) asMessage() (domain.Role, string, bool) {
	switch p.Type {
	case "message":
		text := strings.TrimSpace(p.joinedContent())
		if text == "" {
			return "", "", false
		}
		return roleOf(p.Role), text, true
	case "user_message":
		text := strings.TrimSpace(p.Message)
		if text == "" {
			return "", "", false
		}
		return domain.RoleUser, text, true
	case "agent_message":
		text := strings.TrimSpace(p.Message)
		if text == "" {
			return "", "", false
		}
		return domain.RoleAssistant, text, true
	}

	return "", "", false
}

func (p payload) joinedContent() string {
	var b strings.Builder
	for _, chunk := range p.Content {
		b.WriteString(chunk.Text)
	}
	return b.String()
}

func roleOf(raw string) domain.Role {
	switch raw {
	case "user":
		return domain.RoleUser
	case "assistant":
		return domain.RoleAssistant
	default:
		return domain.RoleUnknown
	}
}

// renderPayload turns any payload into a prompt segment. Unknown payload
// types fall back to a JSON dump so nothing is lost from the fingerprint
// or the summarization prompt.
func renderPayload(p payload) (header, text string, ok bool) {
	switch p.Type {
	case "message":
		role := p.Role
		if role == "" {
			role = "unknown"
		}
		header = strings.ToUpper(role)
		text = strings.TrimSpace(p.joinedContent())
	case "user_message", "agent_message":
		header = strings.ToUpper(p.Type)
		text = strings.TrimSpace(p.Message)
	case "agent_reasoning":
		header = "AGENT_REASONING"
		text = strings.TrimSpace(p.Text)
	case "reasoning":
		header = "REASONING"
		text = renderReasoning(p)
	case "function_call":
		header = strings.TrimSpace("FUNCTION_CALL " + p.Name)
		text = renderArguments(p.Arguments)
	case "function_call_output":
		header = strings.TrimSpace("FUNCTION_OUTPUT " + p.CallID)
		text = renderOutput(p.Output)
	case "token_count":
		header = "TOKEN_COUNT"
		text = formatJSON(map[string]json.RawMessage{
			"info":        p.Info,
			"rate_limits": p.RateLimits,
		})
	case "turn_aborted":
		header = "TURN_ABORTED"
		text = p.dumpWithoutType()
	case "event_msg":
		header = "EVENT"
		text = p.dumpWithoutType()
	case "":
		return "", "", false
	default:
		header = strings.ToUpper(p.Type)
		text = p.dumpWithoutType()
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", "", false
	}

	return header, text, true
}

func renderReasoning(p payload) string {
	var items []struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(p.Summary, &items); err == nil {
		lines := make([]string, 0, len(items))
		for _, item := range items {
			lines = append(lines, item.Text)
		}
		if text := strings.TrimSpace(strings.Join(lines, "\n")); text != "" {
			return text
		}
	}

	var single struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(p.Summary, &single); err == nil {
		if text := strings.TrimSpace(single.Text); text != "" {
			return text
		}
	}

	if p.EncryptedContent != "" {
		return "<encrypted reasoning content>"
	}

	return ""
}

func renderArguments(arguments json.RawMessage) string {
	if len(arguments) == 0 {
		return ""
	}

	// Arguments usually arrive as a JSON-encoded string; pretty-print the
	// inner object when it parses.
	var asString string
	if err := json.Unmarshal(arguments, &asString); err == nil {
		var inner any
		if err := json.Unmarshal([]byte(asString), &inner); err == nil {
			return formatJSON(inner)
		}
		return asString
	}

	var inner any
	if err := json.Unmarshal(arguments, &inner); err == nil {
		return formatJSON(inner)
	}

	return string(arguments)
}

func renderOutput(output json.RawMessage) string {
	if len(output) == 0 {
		return ""
	}

	var asString string
	if err := json.Unmarshal(output, &asString); err == nil {
		return strings.TrimSpace(asString)
	}

	var inner any
	if err := json.Unmarshal(output, &inner); err == nil {
		return formatJSON(inner)
	}

	return string(output)
}

func (p payload) dumpWithoutType() string {
	if p.raw == nil {
		return ""
	}

	fields := make(map[string]json.RawMessage, len(p.raw))
	for key, value := range p.raw {
		if key == "type" {
			continue
		}
		fields[key] = value
	}

	return formatJSON(fields)
}

// formatJSON renders a value as indented JSON with deterministic key
// order (encoding/json sorts map keys).
func formatJSON(value any) string {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return ""
	}

	return string(data)
}
