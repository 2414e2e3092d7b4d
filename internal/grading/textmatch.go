package grading

import "strings"

// fold trims surrounding whitespace and lower-cases. Inner spacing and punctuation are kept,
// so historical attempts stay comparable.
func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
