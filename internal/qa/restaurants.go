package qa

import (
	"regexp"
	"sort"
	"strings"

	"github.com/BalRam15/Assignment-qa-services/internal/models"
	"github.com/samber/lo"
)

var (
	pluralRestaurantsPattern = regexp.MustCompile(`(?i)\b(?:favorite|favourite)\s+restaurants?(?:\s+are|\s*:)\s+(.+)`)
	singleRestaurantPattern  = regexp.MustCompile(`(?i)\b(?:favorite|favourite)\s+restaurant(?:\s+is|\s*:)\s+(.+)`)
	restaurantSeparator      = regexp.MustCompile(`,| and `)
)

const restaurantTrimSet = " .!?:;\"'()"

// favoriteRestaurants unions the restaurants named across every member
// message and returns them sorted.
func (e *Engine) favoriteRestaurants(messages []models.Message, ent Entities) ([]string, bool) {
	seen := make(map[string]struct{})
	for _, msg := range messages {
		if !msg.MatchesMember(ent.Subject) || msg.Text == "" {
			continue
		}
		for _, name := range restaurantsIn(msg.Text) {
			seen[name] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil, false
	}

	names := lo.Keys(seen)
	sort.Strings(names)
	return names, true
}

func restaurantsIn(text string) []string {
	if m := pluralRestaurantsPattern.FindStringSubmatch(text); m != nil {
		return lo.FilterMap(restaurantSeparator.Split(m[1], -1), func(part string, _ int) (string, bool) {
			name := cleanRestaurant(part)
			return name, name != ""
		})
	}
	if m := singleRestaurantPattern.FindStringSubmatch(text); m != nil {
		if name := cleanRestaurant(m[1]); name != "" {
			return []string{name}
		}
	}
	return nil
}

// cleanRestaurant strips wrapping punctuation and cuts at the first period.
func cleanRestaurant(part string) string {
	name := strings.Trim(part, restaurantTrimSet)
	if i := strings.Index(name, "."); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

func renderRestaurants(ent Entities, names []string) string {
	list := strings.Join(names, ", ")
	if ent.Subject == "" {
		return "favorite restaurants: " + list + "."
	}
	return ent.Subject + "'s favorite restaurants: " + list + "."
}
