package post

import "strings"

// Excerpt returns the first line of body, cut to limit runes with marker
// appended when anything was cut. Only a trailing carriage return is removed.
func Excerpt(body string, limit int, marker string) string {
	line, _, _ := strings.Cut(body, "\n")
	line = strings.TrimSuffix(line, "\r")

	r := []rune(line)
	if limit <= 0 || len(r) <= limit {
		return line
	}
	return string(r[:limit]) + marker
}
