package qa

import (
	"strings"

	"github.com/samber/lo"
)

// Intent is the closed category a question is classified into.
type Intent string

const (
	IntentTripWhen            Intent = "trip_when"
	IntentCarCount            Intent = "car_count"
	IntentFavoriteRestaurants Intent = "favorite_restaurants"
	IntentUnknown             Intent = "unknown"
)

type intentRule struct {
	intent Intent
	match  func(q string) bool
}

// intentRules is evaluated top to bottom over the lower-cased question; the
// first rule that matches decides the intent.
var intentRules = []intentRule{
	{
		intent: IntentTripWhen,
		match: func(q string) bool {
			return strings.Contains(q, "trip to") ||
				containsAll(q, "planning", "trip") ||
				strings.Contains(q, "travel")
		},
	},
	{
		intent: IntentCarCount,
		match: func(q string) bool {
			return containsAll(q, "how many", "car")
		},
	},
	{
		intent: IntentFavoriteRestaurants,
		match: func(q string) bool {
			return containsAny(q, "favorite", "favourite") && containsAny(q, "restaurant", "restaurants")
		},
	},
}

// Classify maps a question to exactly one intent, IntentUnknown when no rule matches.
func Classify(question string) Intent {
	q := strings.ToLower(question)
	for _, rule := range intentRules {
		if rule.match(q) {
			return rule.intent
		}
	}
	return IntentUnknown
}

// Rules returns the intents in the order their rules are evaluated.
func Rules() []Intent {
	return lo.Map(intentRules, func(r intentRule, _ int) Intent {
		return r.intent
	})
}

func containsAll(s string, subs ...string) bool {
	return lo.EveryBy(subs, func(sub string) bool {
		return strings.Contains(s, sub)
	})
}

func containsAny(s string, subs ...string) bool {
	return lo.SomeBy(subs, func(sub string) bool {
		return strings.Contains(s, sub)
	})
}
