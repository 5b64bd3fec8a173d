package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fencedBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// UnmarshalStructured parses model output into out, trying progressively
// looser strategies: a strict parse of the whole content, then a fenced
// code block, then the outermost balanced JSON object embedded in prose.
// Returns false if no strategy produced a valid result.
func UnmarshalStructured(content string, out any) bool {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return false
	}

	if json.Unmarshal([]byte(trimmed), out) == nil {
		return true
	}

	if m := fencedBlockPattern.FindStringSubmatch(trimmed); m != nil {
		if json.Unmarshal([]byte(m[1]), out) == nil {
			return true
		}
	}

	if block := balancedObject(trimmed); block != "" {
		if json.Unmarshal([]byte(block), out) == nil {
			return true
		}
	}

	return false
}

// balancedObject returns the first top-level {...} block in text, tracking
// string literals and escapes so braces inside values don't end the scan.
func balancedObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1]
				}
			}
		}
	}
	return ""
}
