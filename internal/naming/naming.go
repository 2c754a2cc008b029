// Package naming converts identifiers between casing styles and validates
// user-supplied artifact names.
package naming

import (
	"strings"
)

// Words splits s into words. Hyphens, underscores and spaces separate words,
// and a lowercase letter followed by an uppercase letter starts a new word.
func Words(s string) []string {
	var words []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '-' || c == '_' || c == ' ':
			flush()
			continue
		case isUpper(c) && i > 0 && isLower(s[i-1]):
			flush()
		}
		current.WriteByte(c)
	}
	flush()

	return words
}

// PascalCase converts s to PascalCase. The casing inside each word is kept.
func PascalCase(s string) string {
	var sb strings.Builder
	for _, w := range Words(s) {
		sb.WriteString(strings.ToUpper(w[:1]))
		sb.WriteString(w[1:])
	}
	return sb.String()
}

// CamelCase converts s to camelCase.
func CamelCase(s string) string {
	p := PascalCase(s)
	if p == "" {
		return ""
	}
	return strings.ToLower(p[:1]) + p[1:]
}

// KebabCase converts s to kebab-case.
func KebabCase(s string) string {
	return joinLower(s, "-")
}

// SnakeCase converts s to snake_case.
func SnakeCase(s string) string {
	return joinLower(s, "_")
}

// UpperSnakeCase converts s to UPPER_SNAKE_CASE.
func UpperSnakeCase(s string) string {
	return strings.ToUpper(joinLower(s, "_"))
}

// Pluralize returns the plural of word using suffix rules only.
//
// Known limitation: irregular plurals ("person", "child", "mouse") and words
// like "bus" vs "quiz" are not special-cased.
func Pluralize(word string) string {
	if word == "" {
		return ""
	}

	lower := strings.ToLower(word)
	n := len(lower)

	switch {
	case n >= 2 && lower[n-1] == 'y' && !isVowel(lower[n-2]):
		return word[:n-1] + "ies"
	case strings.HasSuffix(lower, "s"),
		strings.HasSuffix(lower, "x"),
		strings.HasSuffix(lower, "ch"),
		strings.HasSuffix(lower, "sh"):
		return word + "es"
	default:
		return word + "s"
	}
}

func joinLower(s, sep string) string {
	words := Words(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, sep)
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
