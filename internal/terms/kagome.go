package terms

import (
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// KagomeAnalyzer adapts the kagome morphological tokenizer (IPA
// dictionary) to the Analyzer interface.
type KagomeAnalyzer struct {
	t *tokenizer.Tokenizer
}

// NewKagomeAnalyzer builds a tokenizer over the bundled IPA dictionary.
func NewKagomeAnalyzer() (*KagomeAnalyzer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("terms: init tokenizer: %w", err)
	}
	return &KagomeAnalyzer{t: t}, nil
}

// Tokens tokenizes text and reports each morpheme's base form and its
// comma-joined part-of-speech features. Morphemes without a dictionary
// base form fall back to their surface form.
func (k *KagomeAnalyzer) Tokens(text string) []Token {
	if text == "" {
		return nil
	}
	ktoks := k.t.Tokenize(text)
	out := make([]Token, 0, len(ktoks))
	for _, kt := range ktoks {
		base, ok := kt.BaseForm()
		if !ok || base == "" || base == "*" {
			base = kt.Surface
		}
		out = append(out, Token{Base: base, POS: strings.Join(kt.POS(), ",")})
	}
	return out
}
