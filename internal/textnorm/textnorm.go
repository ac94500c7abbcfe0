// Package textnorm canonicalizes raw captured text before hashing and formatting.
package textnorm

import (
	"regexp"
	"strings"
)

var (
	hspaceRe   = regexp.MustCompile(`[ \t]+`)
	blankRunRe = regexp.MustCompile(`\n{3,}`)
)

// Normalize converts every line-ending variant to \n, collapses runs of
// spaces and tabs to a single space, collapses three or more consecutive
// newlines to one blank line, and trims the whole text. The result is a
// fixed point: Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = hspaceRe.ReplaceAllString(text, " ")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
