// Package strutil holds the string-case helpers used when deriving instance
// and class names for generated swarm code.
package strutil

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	upperRun   = regexp.MustCompile(`[A-Z]+`)
	upperWord  = regexp.MustCompile(`[A-Z][a-z]+`)
	separators = regexp.MustCompile(`[_\- ]+`)
)

// SnakeCase converts s to snake_case. Hyphens act as word separators and
// acronym runs stay together: "HTTPServer" becomes "http_server".
func SnakeCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = upperRun.ReplaceAllString(s, " $0")
	s = upperWord.ReplaceAllString(s, " $0")
	return strings.ToLower(strings.Join(strings.Fields(s), "_"))
}

// PascalCase converts s to PascalCase. Input that already round-trips through
// capitalization is returned unchanged, so "HTTPServer" stays "HTTPServer".
// Underscores, hyphens and spaces separate words.
func PascalCase(s string) string {
	if s != "" && s == recapitalized(s) {
		return s
	}
	words := strings.Fields(separators.ReplaceAllString(s, " "))
	var b strings.Builder
	for _, w := range words {
		b.WriteString(capitalize(w))
	}
	return b.String()
}

// recapitalized splits s at every uppercase letter and capitalizes each
// chunk, mirroring how the name would look if it were already PascalCase.
func recapitalized(s string) string {
	runes := []rune(s)
	var b strings.Builder
	start := 0
	for i := 1; i <= len(runes); i++ {
		if i == len(runes) || unicode.IsUpper(runes[i]) {
			b.WriteString(capitalize(string(runes[start:i])))
			start = i
		}
	}
	return b.String()
}

// capitalize uppercases the first rune and lowercases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	out := string(unicode.ToUpper(runes[0]))
	if len(runes) > 1 {
		out += strings.ToLower(string(runes[1:]))
	}
	return out
}
