package similarity

import (
	"strings"
	"unicode"
)

// Normalize lowercases value, drops every rune that is not a letter, digit or
// space, and collapses runs of whitespace. "Sci-Fi" and "SciFi" both become
// "scifi".
func Normalize(value string) string {
	lowered := strings.ToLower(strings.TrimSpace(value))
	if lowered == "" {
		return ""
	}

	var builder strings.Builder
	builder.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			builder.WriteRune(r)
		case unicode.IsSpace(r):
			builder.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(builder.String()), " ")
}

// Distinct drops blank values and later spellings that normalize to a value
// already kept, so "Sci-Fi" and "SciFi" on one page collapse to the first.
// Kept values are trimmed.
func Distinct(values []string) []string {
	kept := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, value := range values {
		key := Normalize(value)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, strings.TrimSpace(value))
	}
	return kept
}
