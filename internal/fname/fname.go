// Package fname derives safe file-name segments from captured text.
package fname

import (
	"regexp"
	"strings"

	"github.com/zyaga/clipnote/internal/redact"
	"github.com/zyaga/clipnote/internal/textnorm"
)

// Fallback is used when no usable summary survives filtering.
const Fallback = "clip"

var (
	forbiddenRe = regexp.MustCompile(`[\\/:*?"<>|]+`)
	spaceRunRe  = regexp.MustCompile(`\s+`)
	urlRe       = regexp.MustCompile(`https?://`)
)

// Sanitize strips characters that common file systems reject, collapses
// whitespace runs, trims, and removes trailing periods. Idempotent:
// Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = forbiddenRe.ReplaceAllString(s, "_")
	s = spaceRunRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	return strings.Trim(s, ".")
}

// Summary derives a file-name segment from text. The first non-blank
// line wins unless it starts with a URL scheme, is shorter than four
// characters, or contains a URL; then the top six ranked fallback terms
// are joined instead, then Fallback. The candidate is redacted,
// sanitized, and truncated to maxLen runes.
func Summary(text string, fallbackTerms []string, maxLen int) string {
	t := textnorm.Normalize(text)

	var first string
	for _, ln := range strings.Split(t, "\n") {
		if s := strings.TrimSpace(ln); s != "" {
			first = s
			break
		}
	}
	if strings.HasPrefix(first, "http") || len([]rune(first)) < 4 || urlRe.MatchString(first) {
		first = ""
	}

	cand := first
	if cand == "" {
		terms := fallbackTerms
		if len(terms) > 6 {
			terms = terms[:6]
		}
		cand = strings.Join(terms, " ")
	}
	if cand == "" {
		cand = Fallback
	}

	cand = redact.Apply(cand)
	cand = Sanitize(cand)

	if r := []rune(cand); maxLen > 0 && len(r) > maxLen {
		cand = strings.TrimRight(string(r[:maxLen]), " ")
	}
	if cand == "" {
		return Fallback
	}
	return cand
}
