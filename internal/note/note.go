// Package note assembles the final Markdown document from pipeline output.
package note

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zyaga/clipnote/internal/outline"
)

// LinkMode controls whether selected terms are also linkified inside
// the outline body.
type LinkMode string

const (
	// LinkModeNever keeps the body clean; candidates appear only in the
	// リンク候補 section.
	LinkModeNever LinkMode = "never"
	// LinkModeInPlace wraps each candidate occurrence in the body with
	// [[...]], protecting code spans and existing wikilinks.
	LinkModeInPlace LinkMode = "in-place"
)

type frontmatter struct {
	Created string   `yaml:"created"`
	Tags    []string `yaml:"tags"`
	Source  string   `yaml:"source"`
}

// Build composes the metadata header and body for normalized text.
// The frontmatter stays parse-compatible with standard YAML readers.
func Build(normalized string, tags, wikilinks []string, mode LinkMode, now time.Time) string {
	dateStr := now.Format("2006-01-02")
	timeStr := now.Format("15:04:05")

	cleanTags := make([]string, 0, len(tags))
	for _, t := range tags {
		cleanTags = append(cleanTags, strings.TrimLeft(t, "#"))
	}

	fm, _ := yaml.Marshal(frontmatter{
		Created: dateStr + " " + timeStr,
		Tags:    cleanTags,
		Source:  "clipboard",
	})

	bullets := outline.ToBullets(normalized)
	if mode == LinkModeInPlace {
		bullets = Linkify(bullets, wikilinks)
	}

	linkLines := "- "
	if len(wikilinks) > 0 {
		lines := make([]string, 0, len(wikilinks))
		for _, w := range wikilinks {
			lines = append(lines, "- [["+w+"]]")
		}
		linkLines = strings.Join(lines, "\n")
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "# 📥 INBOXクリップ (%s)\n\n", dateStr)
	b.WriteString("## 内容\n")
	b.WriteString(bullets)
	b.WriteString("\n\n## 🔗 リンク候補\n")
	b.WriteString(linkLines)
	fmt.Fprintf(&b, "\n\n## メタ\n- 保存: %s %s\n", dateStr, timeStr)
	return b.String()
}
