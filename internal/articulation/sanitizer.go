package articulation

import (
	"regexp"
	"strings"
)

// genericRoleTags are bracket-tag words the model uses to label itself in
// either language. A leading [X] with any of these is noise, not content.
var genericRoleTags = map[string]struct{}{
	"assistant": {},
	"bot":       {},
	"ai":        {},
	"system":    {},
	"봇":         {},
	"도우미":       {},
	"어시스턴트":     {},
	"비서":        {},
}

var leadingBracketRe = regexp.MustCompile(`^\[([^\[\]]{1,40})\]\s*:?\s*`)

// Sanitize strips self-referential name tags from a persona reply and, in
// multi-persona mode, lines that impersonate another active persona.
//
// Guarantee: a non-empty input never sanitizes to empty. Whenever the
// stripping rules would eliminate everything, the original trimmed reply is
// returned instead.
func Sanitize(reply, selfName string, otherNames []string) string {
	original := strings.TrimSpace(reply)
	if original == "" {
		return ""
	}

	out := original

	// Leading [X] where X is a generic role word or resolves to the
	// persona's own name.
	if m := leadingBracketRe.FindStringSubmatch(out); m != nil {
		tag := strings.TrimSpace(m[1])
		if isGenericRole(tag) || namesMatch(tag, selfName) {
			out = strings.TrimSpace(out[len(m[0]):])
		}
	}

	// Leading "Name:" / "Name：" prefix matching the persona's own name.
	out = stripNamePrefix(out, selfName)

	// The model sometimes writes a whole script, answering for its
	// co-personas. Drop those lines; if that would erase the reply, keep the
	// original rather than emit nothing.
	if len(otherNames) > 0 {
		kept := dropImpersonatedLines(out, otherNames)
		if strings.TrimSpace(kept) != "" {
			out = kept
		} else {
			return original
		}
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return original
	}
	return out
}

func isGenericRole(tag string) bool {
	_, ok := genericRoleTags[strings.ToLower(tag)]
	return ok
}

// namesMatch compares a tag against a persona name case-insensitively and
// substring-tolerantly: "[하루 비서]" matches the persona "하루".
func namesMatch(tag, name string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	name = strings.ToLower(strings.TrimSpace(name))
	if tag == "" || name == "" {
		return false
	}
	return strings.Contains(tag, name) || strings.Contains(name, tag)
}

// stripNamePrefix removes a leading "Name:" or "Name：" matching name.
func stripNamePrefix(s, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return s
	}
	lower := strings.ToLower(s)
	prefix := strings.ToLower(name)
	if !strings.HasPrefix(lower, prefix) {
		return s
	}
	rest := s[len(name):]
	for _, sep := range []string{":", "："} {
		if strings.HasPrefix(strings.TrimSpace(rest), sep) {
			trimmed := strings.TrimSpace(rest)
			return strings.TrimSpace(trimmed[len(sep):])
		}
	}
	return s
}

// dropImpersonatedLines removes lines whose prefix names another persona,
// either as "Name:" / "Name：" or as a bracket tag.
func dropImpersonatedLines(s string, otherNames []string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if impersonates(line, otherNames) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func impersonates(line string, otherNames []string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if m := leadingBracketRe.FindStringSubmatch(trimmed); m != nil {
		for _, name := range otherNames {
			if namesMatch(m[1], name) {
				return true
			}
		}
	}
	lower := strings.ToLower(trimmed)
	for _, name := range otherNames {
		n := strings.ToLower(strings.TrimSpace(name))
		if n == "" {
			continue
		}
		if strings.HasPrefix(lower, n) {
			rest := strings.TrimSpace(trimmed[len(n):])
			if strings.HasPrefix(rest, ":") || strings.HasPrefix(rest, "：") {
				return true
			}
		}
	}
	return false
}
