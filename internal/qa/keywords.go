package qa

import (
	"fmt"
	"sort"
	"strings"

	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/samber/lo"
)

// keywordSet answers "does this text contain any of these words" with a
// single Aho-Corasick pass over the lower-cased text.
type keywordSet struct {
	matcher *goahocorasick.Machine
}

var (
	tripKeywords = mustKeywordSet("trip", "travel", "flight")
	carKeywords  = mustKeywordSet("car")
)

func newKeywordSet(words ...string) (*keywordSet, error) {
	normalized := lo.Uniq(lo.FilterMap(words, func(w string, _ int) (string, bool) {
		w = strings.ToLower(strings.TrimSpace(w))
		return w, w != ""
	}))
	if len(normalized) == 0 {
		return nil, fmt.Errorf("keyword set is empty")
	}
	sort.Strings(normalized)

	patterns := lo.Map(normalized, func(w string, _ int) []rune {
		return []rune(w)
	})
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, fmt.Errorf("build keyword matcher: %w", err)
	}
	return &keywordSet{matcher: m}, nil
}

func mustKeywordSet(words ...string) *keywordSet {
	k, err := newKeywordSet(words...)
	if err != nil {
		panic(err)
	}
	return k
}

// foundIn reports whether any keyword occurs as a substring of text, ignoring case.
func (k *keywordSet) foundIn(text string) bool {
	if text == "" {
		return false
	}
	hits := k.matcher.MultiPatternSearch([]rune(strings.ToLower(text)), true)
	return len(hits) > 0
}
