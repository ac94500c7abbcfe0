package terms

import (
	"sort"
	"strings"
)

// Selector picks a bounded set of wikilink candidates for a text.
type Selector struct {
	Seeds    []string
	Stop     map[string]struct{}
	Max      int
	Analyzer Analyzer
}

// Links builds the candidate pool (seeds present in the text, extracted
// nouns, extracted Latin terms), ranks it with Score, and selects by
// descending score until Max is reached. Non-seed candidates must be at
// least five characters long and occur at least twice; seeds bypass
// both filters. Stop-words are excluded even when they slipped through
// as Latin tokens. The final list is re-sorted by descending term
// length — a display-ordering decision separate from selection ranking.
func (s Selector) Links(text string) []string {
	lower := strings.ToLower(text)
	seedSet := make(map[string]struct{}, len(s.Seeds))
	var pool []string
	for _, seed := range s.Seeds {
		if seed != "" && strings.Contains(lower, strings.ToLower(seed)) {
			seedSet[seed] = struct{}{}
			pool = append(pool, seed)
		}
	}
	pool = append(pool, ExtractNouns(s.Analyzer, text, s.Stop)...)
	pool = append(pool, ExtractLatin(text)...)

	// Deduplicate keeping first occurrence; Score's stable sort then
	// breaks ties deterministically.
	seen := make(map[string]struct{}, len(pool))
	uniq := make([]string, 0, len(pool))
	for _, t := range pool {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		uniq = append(uniq, t)
	}

	max := s.Max
	if max <= 0 {
		max = 12
	}

	var selected []string
	for _, st := range Score(text, uniq) {
		term := st.Term
		if _, isSeed := seedSet[term]; !isSeed {
			if len([]rune(term)) <= 4 {
				continue
			}
			if strings.Count(text, term) < 2 {
				continue
			}
		}
		if _, stop := s.Stop[term]; stop {
			continue
		}
		selected = append(selected, term)
		if len(selected) >= max {
			break
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return len([]rune(selected[i])) > len([]rune(selected[j]))
	})
	return selected
}
