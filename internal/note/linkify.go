package note

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	fencedRe   = regexp.MustCompile("(?s)```.*?```")
	inlineRe   = regexp.MustCompile("`[^`]*`")
	wikilinkRe = regexp.MustCompile(`\[\[[^\]]+\]\]`)
)

// Linkify wraps each keyword occurrence in body with [[...]]. Fenced
// code blocks, inline code spans and existing wikilinks are protected
// by temporary placeholders and restored afterwards. A keyword directly
// preceded by '[', '#' or '_' is left alone.
func Linkify(body string, keywords []string) string {
	if len(keywords) == 0 {
		return body
	}

	var protected []string
	protect := func(re *regexp.Regexp, s string) string {
		return re.ReplaceAllStringFunc(s, func(m string) string {
			protected = append(protected, m)
			return fmt.Sprintf("\x00%d\x00", len(protected)-1)
		})
	}

	tmp := protect(fencedRe, body)
	tmp = protect(inlineRe, tmp)
	tmp = protect(wikilinkRe, tmp)

	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		re := regexp.MustCompile(`(?m)(^|[^\[#_])` + regexp.QuoteMeta(kw))
		tmp = re.ReplaceAllStringFunc(tmp, func(m string) string {
			pre := strings.TrimSuffix(m, kw)
			return pre + "[[" + kw + "]]"
		})
	}

	for i, original := range protected {
		tmp = strings.Replace(tmp, fmt.Sprintf("\x00%d\x00", i), original, 1)
	}
	return tmp
}
