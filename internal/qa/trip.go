package qa

import (
	"fmt"
	"strings"

	"github.com/BalRam15/Assignment-qa-services/internal/models"
	"github.com/samber/lo"
)

type tripCandidate struct {
	date string
	text string
}

// tripDate collects every dated trip mention for the member (and location,
// when one was asked about) and keeps the earliest date.
func (e *Engine) tripDate(messages []models.Message, ent Entities) (string, bool) {
	location := strings.ToLower(ent.Location)

	var candidates []tripCandidate
	for _, msg := range messages {
		if !msg.MatchesMember(ent.Subject) || msg.Text == "" {
			continue
		}
		if !tripKeywords.foundIn(msg.Text) {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(msg.Text), location) {
			continue
		}
		date, ok := e.dates.Parse(msg.Text)
		if !ok {
			continue
		}
		candidates = append(candidates, tripCandidate{date: date, text: msg.Text})
	}
	if len(candidates) == 0 {
		return "", false
	}

	earliest := lo.MinBy(candidates, func(a, b tripCandidate) bool {
		return a.date < b.date
	})
	return earliest.date, true
}

func renderTrip(ent Entities, date string) string {
	switch {
	case ent.Subject != "" && ent.Location != "":
		return fmt.Sprintf("%s is planning the trip to %s on %s.", ent.Subject, ent.Location, date)
	case ent.Subject != "":
		return fmt.Sprintf("%s is planning the trip on %s.", ent.Subject, date)
	case ent.Location != "":
		return fmt.Sprintf("The trip to %s is on %s.", ent.Location, date)
	default:
		return fmt.Sprintf("The trip is on %s.", date)
	}
}
