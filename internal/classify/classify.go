// Package classify matches captured text against a keyword rule table.
package classify

import "strings"

// Rule labels a text when at least one Any keyword appears in it and
// every All keyword does. Matching is case-insensitive substring
// containment. An empty Any list never matches; an empty All list is
// vacuously satisfied.
type Rule struct {
	Label string   `yaml:"label"`
	Any   []string `yaml:"any"`
	All   []string `yaml:"all,omitempty"`
}

// RuleSet is an ordered rule table. Declaration order decides
// first-match reductions, so it is a slice, not a map.
type RuleSet []Rule

// Fallback labels.
const (
	FallbackTag      = "INBOX"
	FallbackCategory = "misc"
)

// TagMode selects how matched labels reduce to note tags.
type TagMode string

const (
	// TagModeSingle keeps at most one tag: the sole matched label when
	// exactly one rule matched, otherwise FallbackTag.
	TagModeSingle TagMode = "single"
	// TagModeFixedPlusAuto unions a fixed tag list with every matched
	// label, preserving first occurrence and dropping duplicates.
	TagModeFixedPlusAuto TagMode = "fixed-plus-auto"
)

// Classify returns the labels of every rule that matches text, in table
// order. Rules are independent; a text may match zero, one or many.
func (rs RuleSet) Classify(text string) []string {
	lower := strings.ToLower(text)
	var labels []string
	for _, r := range rs {
		if r.matches(lower) {
			labels = append(labels, r.Label)
		}
	}
	return labels
}

func (r Rule) matches(lower string) bool {
	anyHit := false
	for _, k := range r.Any {
		if k != "" && strings.Contains(lower, strings.ToLower(k)) {
			anyHit = true
			break
		}
	}
	if !anyHit {
		return false
	}
	for _, k := range r.All {
		if !strings.Contains(lower, strings.ToLower(k)) {
			return false
		}
	}
	return true
}

// PrimaryTag reduces matched labels for TagModeSingle: the label itself
// when exactly one rule matched, otherwise FallbackTag.
func PrimaryTag(labels []string) string {
	if len(labels) == 1 {
		return labels[0]
	}
	return FallbackTag
}

// PrimaryCategory picks the file-name category segment: the first
// matched label in table order, or FallbackCategory.
func PrimaryCategory(labels []string) string {
	if len(labels) > 0 {
		return labels[0]
	}
	return FallbackCategory
}

// Tags applies the configured tag mode to the matched labels. The fixed
// list is only consulted in fixed-plus-auto mode.
func Tags(mode TagMode, fixed, labels []string) []string {
	if mode != TagModeFixedPlusAuto {
		return []string{PrimaryTag(labels)}
	}
	seen := make(map[string]struct{}, len(fixed)+len(labels))
	out := make([]string, 0, len(fixed)+len(labels))
	for _, t := range fixed {
		if _, dup := seen[t]; dup || t == "" {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	for _, t := range labels {
		if _, dup := seen[t]; dup || t == "" {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
