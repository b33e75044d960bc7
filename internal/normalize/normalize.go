// Package normalize canonicalizes skill tokens and cleans LLM generated prose.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Aliases maps lowercased spellings to their canonical display form.
var Aliases = map[string]string{
	"py":       "Python",
	"python3":  "Python",
	"python":   "Python",
	"js":       "JavaScript",
	"node":     "Node.js",
	"nodejs":   "Node.js",
	"reactjs":  "React",
	"fastapi":  "FastAPI",
	"flask":    "Flask",
	"postgres": "PostgreSQL",
	"sql":      "SQL",
}

var blankRun = regexp.MustCompile(`\n{3,}`)

// Token returns the canonical form of a skill or technology name.
// Blank input yields "", which callers treat as "drop".
func Token(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return token
	}

	if alias, ok := Aliases[strings.ToLower(token)]; ok {
		return alias
	}

	if hasUpper(token) {
		return token
	}

	r, size := utf8.DecodeRuneInString(token)
	return string(unicode.ToUpper(r)) + token[size:]
}

// List normalizes every token, drops blanks and keeps the first occurrence
// of each canonical value.
func List(items []string) []string {
	normalized := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))

	for _, item := range items {
		val := Token(item)
		if val == "" {
			continue
		}
		if _, ok := seen[val]; ok {
			continue
		}
		seen[val] = struct{}{}
		normalized = append(normalized, val)
	}

	return normalized
}

// Any is List for loosely typed input such as decoded JSON arrays.
// Non-string elements are skipped.
func Any(items []any) []string {
	values := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			values = append(values, s)
		}
	}
	return List(values)
}

// Text cleans line oriented whitespace in generated prose. It converts CRLF
// and CR to LF, strips trailing whitespace per line, collapses runs of blank
// lines into a single blank line and trims the result. Content is otherwise
// untouched.
func Text(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	text = strings.Join(lines, "\n")

	text = blankRun.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
