package qa

import (
	"regexp"
	"strings"
)

var (
	// A run of capitalized words, optionally ending in a possessive.
	subjectPattern = regexp.MustCompile(`\b(\p{Lu}\p{Ll}+(?: \p{Lu}\p{Ll}+)*)(?:['’]s\b)?`)

	locationPattern = regexp.MustCompile(`(?i:\btrip\s+to)\s+(\p{Lu}\p{L}+(?:\s+\p{Lu}\p{L}+)*)`)
)

// leadWords are capitalized words that open a question and are never the
// subject themselves. Only words that cannot plausibly be names belong here.
var leadWords = map[string]struct{}{
	"How": {}, "What": {}, "When": {}, "Where": {}, "Which": {}, "Who": {}, "Whose": {}, "Why": {},
	"Is": {}, "Are": {}, "Was": {}, "Were": {}, "Am": {},
	"Do": {}, "Does": {}, "Did": {}, "Has": {}, "Have": {}, "Had": {},
	"Can": {}, "Could": {}, "Would": {}, "Should": {}, "Shall": {},
	"Tell": {}, "Show": {}, "Give": {}, "List": {}, "Find": {}, "Please": {},
	"The": {}, "My": {}, "Our": {}, "Your": {}, "Their": {}, "Hey": {}, "Hi": {},
}

// Entities are the subject and location pulled from a question. Empty
// strings mean "not found".
type Entities struct {
	Subject  string
	Location string
}

// ExtractEntities runs FindSubject and FindLocation over the question.
func ExtractEntities(question string) Entities {
	var e Entities
	e.Subject, _ = FindSubject(question)
	e.Location, _ = FindLocation(question)
	return e
}

// FindSubject returns the first name-like run of one or two capitalized words,
// with any possessive stripped. Leading question words ("How", "Is", "What")
// are skipped. Any other capitalized word, a place name for example, can still
// be mistaken for the subject.
func FindSubject(question string) (string, bool) {
	for _, m := range subjectPattern.FindAllStringSubmatch(question, -1) {
		words := strings.Split(m[1], " ")
		for len(words) > 0 && isLeadWord(words[0]) {
			words = words[1:]
		}
		if len(words) == 0 {
			continue
		}
		if len(words) > 2 {
			words = words[:2]
		}
		return strings.Join(words, " "), true
	}
	return "", false
}

// FindLocation returns the capitalized phrase following "trip to", casing kept.
func FindLocation(question string) (string, bool) {
	m := locationPattern.FindStringSubmatch(question)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func isLeadWord(w string) bool {
	_, ok := leadWords[w]
	return ok
}
