// Package articulation handles the boundary between raw model text and the
// pipeline: extracting the {reply, action} envelope from whatever the
// completion service actually produced, and sanitizing persona replies
// before they reach the conversation.
package articulation

import (
	"encoding/json"
	"errors"
	"strings"
)

// Envelope is the structured completion contract. Action stays an untyped map
// here; the action validator is the only component that interprets it.
type Envelope struct {
	Reply  string         `json:"reply"`
	Action map[string]any `json:"action"`
}

// ErrNoEnvelope reports that no parseable envelope object was found in the
// model output.
var ErrNoEnvelope = errors.New("no envelope object in model output")

// ParseEnvelope extracts the {reply, action} envelope from raw model text.
// Markdown fences, prefix prose, and trailing commentary are tolerated; the
// first candidate object that decodes with a non-empty reply wins.
//
// Callers treat a returned error as "the whole output is the reply": the
// degradation path, never a user-visible failure.
func ParseEnvelope(raw string) (Envelope, error) {
	cleaned := stripFences(raw)

	for _, candidate := range jsonObjectCandidates(cleaned) {
		var env Envelope
		if err := json.Unmarshal([]byte(candidate), &env); err != nil {
			continue
		}
		if strings.TrimSpace(env.Reply) == "" {
			continue
		}
		env.Reply = strings.TrimSpace(env.Reply)
		return env, nil
	}

	return Envelope{}, ErrNoEnvelope
}

// stripFences removes markdown code fence lines so a fenced envelope scans the
// same as a bare one. Content between fences is preserved.
func stripFences(s string) string {
	if !strings.Contains(s, "```") {
		return s
	}
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
