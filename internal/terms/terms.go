// Package terms extracts, scores and selects cross-reference candidates
// from captured text.
package terms

import (
	"regexp"
	"strings"
)

// Token is one morpheme from the linguistic analyzer: the dictionary
// (base) form and the comma-joined part-of-speech feature string.
type Token struct {
	Base string
	POS  string
}

// Analyzer produces morphological tokens for a text.
type Analyzer interface {
	Tokens(text string) []Token
}

var (
	latinRe      = regexp.MustCompile(`[A-Za-z0-9][A-Za-z0-9._/+\-]+`)
	digitsOnlyRe = regexp.MustCompile(`^\d+$`)
)

// ExtractLatin returns maximal alphanumeric-plus-punctuation runs of at
// least three characters that are not purely numeric, in order of first
// occurrence. Duplicates are retained; scoring aggregates them.
func ExtractLatin(text string) []string {
	var out []string
	for _, c := range latinRe.FindAllString(text, -1) {
		if len(c) < 3 || digitsOnlyRe.MatchString(c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ExtractNouns keeps common nouns from the analyzer output. Numeral,
// non-independent and pronoun sub-classes are dropped, as are empty
// bases, stop-words, and single-character bases (one kana or ideograph
// is too generic to be a useful cross-reference).
func ExtractNouns(a Analyzer, text string, stop map[string]struct{}) []string {
	if a == nil {
		return nil
	}
	var out []string
	for _, tok := range a.Tokens(text) {
		pos := strings.Split(tok.POS, ",")
		if pos[0] != "名詞" {
			continue
		}
		if len(pos) > 1 && (pos[1] == "数" || pos[1] == "非自立" || pos[1] == "代名詞") {
			continue
		}
		base := tok.Base
		if base == "" {
			continue
		}
		if _, ok := stop[base]; ok {
			continue
		}
		if len([]rune(base)) <= 1 {
			continue
		}
		out = append(out, base)
	}
	return out
}

// DefaultSeeds returns the built-in seed terms: always eligible for
// selection when present in the text, bypassing length and frequency
// filters.
func DefaultSeeds() []string {
	return []string{
		"Obsidian", "Second Brain", "INBOX", "Daily Note", "ジャーナル", "振り返り",
		"気づきメモ", "タスク管理", "自動化", "Python", "Copilot", "Copilot 365",
	}
}

// DefaultStopwords returns the built-in Japanese stop-word set.
func DefaultStopwords() map[string]struct{} {
	words := []string{
		"こと", "もの", "それ", "これ", "ため", "ところ", "感じ", "自分", "今日", "明日",
		"今回", "一旦", "必要", "可能", "方", "時", "あと", "前", "中", "後", "上", "下",
		"私", "僕", "俺", "あなた", "さん", "的", "他", "など",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
