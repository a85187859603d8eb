package types

import (
	"fmt"
	"strings"
)

// =============================================================================
// UNTRUSTED FIELD EXTRACTION UTILITIES
// =============================================================================
//
// Model output arrives as map[string]any after JSON decoding. These helpers
// extract fields without type assertions that panic on mismatch: numbers,
// booleans, and other scalars are stringified, anything structural is
// dropped. The validator builds its fallback chains on top of these.

// Field extracts a trimmed string value for key from an untrusted map.
// Returns "" when the map is nil, the key is absent, or the value is not a
// usable scalar.
func Field(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		// JSON numbers decode as float64; a bare hour like 15 arrives here.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case int:
		return fmt.Sprintf("%d", t)
	case int64:
		return fmt.Sprintf("%d", t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// SubObject extracts a nested object value for key, or nil.
func SubObject(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	sub, _ := m[key].(map[string]any)
	return sub
}
