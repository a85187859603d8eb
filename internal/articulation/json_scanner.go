package articulation

// jsonObjectCandidates scans raw model output for top-level JSON object
// candidates, tolerating markdown fences and prose before or after the
// object. It tracks brace depth and string escaping with a byte-level state
// machine, which is safe because the ASCII delimiters {, }, ", \ never occur
// inside a UTF-8 multi-byte sequence.
func jsonObjectCandidates(s string) []string {
	var candidates []string
	depth := 0
	start := -1
	inString := false
	escape := false

	for i := 0; i < len(s); i++ {
		b := s[i]

		if escape {
			escape = false
			continue
		}

		if inString {
			if b == '\\' {
				escape = true
			} else if b == '"' {
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			inString = true
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start != -1 {
					candidates = append(candidates, s[start:i+1])
					start = -1
				}
			}
		}
	}

	return candidates
}
