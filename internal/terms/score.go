package terms

import (
	"sort"
	"strings"
)

// ScoredTerm pairs a term with its frequency/length score.
type ScoredTerm struct {
	Term  string
	Score int
}

// Score ranks terms by occurrenceCount*10 + min(runeLen, 12), descending.
// Terms that never occur in text are dropped. When the same term arrives
// from several extraction sources, the maximum score is kept, so the
// merge is idempotent. The sort is stable on input order, which makes
// tie-breaking deterministic.
func Score(text string, terms []string) []ScoredTerm {
	scored := make(map[string]int, len(terms))
	var order []string
	for _, term := range terms {
		if term == "" {
			continue
		}
		freq := strings.Count(text, term)
		if freq <= 0 {
			continue
		}
		n := len([]rune(term))
		if n > 12 {
			n = 12
		}
		s := freq*10 + n
		if prev, ok := scored[term]; ok {
			if s > prev {
				scored[term] = s
			}
			continue
		}
		scored[term] = s
		order = append(order, term)
	}

	out := make([]ScoredTerm, 0, len(order))
	for _, t := range order {
		out = append(out, ScoredTerm{Term: t, Score: scored[t]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
