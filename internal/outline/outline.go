// Package outline restructures normalized text into a three-level
// bullet hierarchy using line-shape heuristics.
package outline

import (
	"regexp"
	"strings"
)

// Bullet markers by depth: 0 = claim/heading, 1 = step/annotation,
// 2 = concrete detail.
var indents = [3]string{"- ", "  - ", "    - "}

var (
	listMarkerRe   = regexp.MustCompile(`^(?:-\s+|\*\s+|・\s*)`)
	headingEmojiRe = regexp.MustCompile(`^[🔁💡🧠🧪📌✅❌⚠️📥]`)
	stepRe         = regexp.MustCompile(`^(?:\d+[.)]|[①-⑳]|👉|※|注[:：]|注意[:：])\s*`)
)

var sectionWords = []string{"結論", "重要", "基本ループ", "大事", "前提", "到達点", "明日やること", "視点"}

// lineRule assigns a depth to a line shape. Rules are evaluated in
// order, first match wins, so the precedence is visible data rather
// than branching.
type lineRule struct {
	match func(string) bool
	depth int
}

var lineRules = []lineRule{
	{isEmojiHeading, 0},
	{isSectionLine, 0},
	{stepRe.MatchString, 1},
	{func(string) bool { return true }, 2},
}

func isEmojiHeading(s string) bool {
	return headingEmojiRe.MatchString(s) && len([]rune(s)) <= 80
}

func isSectionLine(s string) bool {
	if len([]rune(s)) > 60 {
		return false
	}
	for _, w := range sectionWords {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// ToBullets renders one bullet per non-blank line of text, each at one
// of three depths. Markdown heading markers win before anything else.
// Leading list markers are stripped before classification so already
// bulleted text does not gain nested artificial bullets. All-blank
// input yields a single placeholder bullet.
func ToBullets(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		raw := strings.TrimSpace(line)
		if raw == "" {
			continue
		}

		if strings.HasPrefix(raw, "#") {
			if title := strings.TrimSpace(strings.TrimLeft(raw, "#")); title != "" {
				out = append(out, indents[0]+title)
			}
			continue
		}

		raw = strings.TrimSpace(listMarkerRe.ReplaceAllString(raw, ""))
		if raw == "" {
			continue
		}

		for _, r := range lineRules {
			if r.match(raw) {
				out = append(out, indents[r.depth]+raw)
				break
			}
		}
	}
	if len(out) == 0 {
		return "- "
	}
	return strings.Join(out, "\n")
}
