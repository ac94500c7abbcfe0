// Package redact masks sensitive substrings before they reach file names.
package redact

import "regexp"

// rule is one pattern → placeholder replacement. Rules run strictly in
// declaration order, each over the output of the previous, so the email
// pattern consumes addresses before the digit-run pattern can touch them.
type rule struct {
	re          *regexp.Regexp
	placeholder string
}

var rules = []rule{
	{regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`), "<email>"},
	{regexp.MustCompile(`\b0\d{1,3}-\d{2,4}-\d{3,4}\b`), "<phone>"},
	{regexp.MustCompile(`\b\d{4,}\b`), "<num>"},
}

// Apply replaces email addresses, phone-like digit groups and runs of
// four or more digits with fixed placeholders.
func Apply(s string) string {
	for _, r := range rules {
		s = r.re.ReplaceAllString(s, r.placeholder)
	}
	return s
}
