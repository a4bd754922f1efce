package helpers

import "strings"

// SplitAndTrim splits s by sep, trims whitespace and drops empty parts.
// Used for comma-separated lists in configuration values.
func SplitAndTrim(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
