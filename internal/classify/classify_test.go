package classify

import (
	"reflect"
	"testing"
)

func TestClassifyMatchesInTableOrder(t *testing.T) {
	rs := RuleSet{
		{Label: "work", Any: []string{"会議", "案件"}},
		{Label: "health", Any: []string{"病院", "薬"}},
	}
	labels := rs.Classify("今日は病院のあとに会議")
	if !reflect.DeepEqual(labels, []string{"work", "health"}) {
		t.Errorf("labels = %v", labels)
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	rs := RuleSet{{Label: "obsidian", Any: []string{"obsidian"}}}
	if got := rs.Classify("Obsidianのプラグイン"); len(got) != 1 {
		t.Errorf("labels = %v", got)
	}
}

func TestClassifyAllConstraint(t *testing.T) {
	rs := RuleSet{{Label: "strict", Any: []string{"買う"}, All: []string{"明日", "店"}}}
	if got := rs.Classify("明日買う"); got != nil {
		t.Errorf("missing All keyword should not match, got %v", got)
	}
	if got := rs.Classify("明日店で買う"); len(got) != 1 {
		t.Errorf("labels = %v", got)
	}
}

func TestClassifyEmptyAnyNeverMatches(t *testing.T) {
	rs := RuleSet{{Label: "broken", Any: nil, All: []string{"x"}}}
	if got := rs.Classify("x"); got != nil {
		t.Errorf("empty Any matched: %v", got)
	}
}

func TestClassifyNoMatch(t *testing.T) {
	rs := DefaultRules()
	if got := rs.Classify("completely unrelated text"); got != nil {
		t.Errorf("labels = %v", got)
	}
}

func TestDefaultRulesCategories(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"明日の会議の議事録", "work"},
		{"Amazonで注文した", "shopping"},
		{"ジムで筋トレした", "health"},
		{"原神のイベント攻略", "game"},
		{"ホテルの予約と新幹線", "travel"},
		{"今月の支出と貯金", "finance"},
		{"Obsidianのノート整理", "obsidian"},
	}
	rs := DefaultRules()
	for _, c := range cases {
		labels := rs.Classify(c.text)
		if PrimaryCategory(labels) != c.want {
			t.Errorf("Classify(%q) = %v, want primary %q", c.text, labels, c.want)
		}
	}
}

func TestPrimaryTag(t *testing.T) {
	if got := PrimaryTag([]string{"work"}); got != "work" {
		t.Errorf("single match: got %q", got)
	}
	if got := PrimaryTag(nil); got != FallbackTag {
		t.Errorf("no match: got %q", got)
	}
	// Ambiguous multi-match falls back.
	if got := PrimaryTag([]string{"work", "health"}); got != FallbackTag {
		t.Errorf("multi match: got %q", got)
	}
}

func TestPrimaryCategory(t *testing.T) {
	if got := PrimaryCategory([]string{"health", "work"}); got != "health" {
		t.Errorf("got %q", got)
	}
	if got := PrimaryCategory(nil); got != FallbackCategory {
		t.Errorf("got %q", got)
	}
}

func TestTagsSingleMode(t *testing.T) {
	got := Tags(TagModeSingle, DefaultFixedTags(), []string{"work", "health"})
	if !reflect.DeepEqual(got, []string{FallbackTag}) {
		t.Errorf("got %v", got)
	}
}

func TestTagsFixedPlusAutoMode(t *testing.T) {
	got := Tags(TagModeFixedPlusAuto, []string{"INBOX", "clip"}, []string{"work", "clip"})
	want := []string{"INBOX", "clip", "work"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTagsFixedPlusAutoNoMatches(t *testing.T) {
	got := Tags(TagModeFixedPlusAuto, DefaultFixedTags(), nil)
	want := []string{"INBOX", "clip", "idea"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
