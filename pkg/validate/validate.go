// Package validate screens and sanitizes interview inputs before they reach
// parsing or the LLM layer.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Size limits in bytes.
const (
	MaxResumeSize           = 500_000
	MaxJobDescriptionSize   = 100_000
	MaxAnswerLength         = 50_000
	MinResumeLength         = 50
	MinJobDescriptionLength = 50
)

// Error reports which input failed validation and why.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func newError(field, format string, args ...any) *Error {
	return &Error{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Injection and traversal markers. Matched case-insensitively against the
// whole input.
var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`\.\./`),
	regexp.MustCompile(`\$\{`),
	regexp.MustCompile(`(?i)exec\(`),
	regexp.MustCompile(`(?i)eval\(`),
	regexp.MustCompile(`(?i)__import__`),
}

// Resume validates and sanitizes resume text.
func Resume(text string) (string, error) {
	return document("resume", text, MaxResumeSize, MinResumeLength)
}

// JobDescription validates and sanitizes job description text.
func JobDescription(text string) (string, error) {
	return document("job description", text, MaxJobDescriptionSize, MinJobDescriptionLength)
}

func document(field, text string, maxSize, minLength int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", newError(field, "%s is empty", field)
	}
	if len(text) > maxSize {
		return "", newError(field, "too large (max %d bytes)", maxSize)
	}
	if len(strings.TrimSpace(text)) < minLength {
		return "", newError(field, "too short (min %d characters)", minLength)
	}
	if isBinary(text) {
		return "", newError(field, "appears to be binary data")
	}
	if containsDangerousContent(text) {
		return "", newError(field, "contains potentially malicious content")
	}

	sanitized := Sanitize(text)
	if len(strings.TrimSpace(sanitized)) < minLength {
		return "", newError(field, "contains insufficient valid text")
	}
	return sanitized, nil
}

// Answer validates and sanitizes a candidate answer. Empty answers are
// allowed since the candidate may choose to skip; oversized answers are
// truncated rather than rejected. With strict enabled the injection
// screening applied to documents is applied to answers as well.
func Answer(text string, strict bool) (string, error) {
	if text == "" {
		return "", nil
	}
	if len(text) > MaxAnswerLength {
		text = truncateAtRune(text, MaxAnswerLength)
	}
	if strict && containsDangerousContent(text) {
		return "", newError("answer", "contains potentially malicious content")
	}
	return Sanitize(text), nil
}

// truncateAtRune cuts text to at most limit bytes without splitting a
// multi-byte rune at the cut point.
func truncateAtRune(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit]
}

// isBinary reports whether the text looks like binary data, based on the
// ratio of non-printable bytes in the first 1000 bytes.
func isBinary(text string) bool {
	sample := text
	if len(sample) > 1000 {
		sample = sample[:1000]
	}
	if len(sample) == 0 {
		return false
	}
	nonPrintable := 0
	for i := 0; i < len(sample); i++ {
		c := sample[i]
		if c < 32 && c != '\n' && c != '\r' && c != '\t' {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(sample)) > 0.3
}

func containsDangerousContent(text string) bool {
	for _, pattern := range dangerousPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

var horizontalWhitespace = regexp.MustCompile(`[ \t]+`)

// Sanitize strips null bytes and control characters (newlines, tabs and
// carriage returns survive), collapses runs of horizontal whitespace within
// each line, and trims surrounding whitespace.
func Sanitize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r >= 32 || r == '\n' || r == '\r' || r == '\t' {
			if r != 0 {
				b.WriteRune(r)
			}
		}
	}

	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = horizontalWhitespace.ReplaceAllString(line, " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
