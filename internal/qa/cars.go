package qa

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/BalRam15/Assignment-qa-services/internal/models"
)

var (
	digitCarsPattern = regexp.MustCompile(`(?i)\b(\d+)\s+cars?\b`)
	wordCarsPattern  = regexp.MustCompile(`(?i)\b(zero|one|two|three|four|five|six|seven|eight|nine|ten)\s+cars?\b`)
	ownsACarPattern  = regexp.MustCompile(`(?i)\bI\s+have\s+a\s+car\b`)
)

var numberWords = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// carCount returns the count from the first member message that states one.
// Messages are scanned in the order given.
func (e *Engine) carCount(messages []models.Message, ent Entities) (int, bool) {
	for _, msg := range messages {
		if !msg.MatchesMember(ent.Subject) {
			continue
		}
		if !carKeywords.foundIn(msg.Text) {
			continue
		}
		if n, ok := countCars(msg.Text); ok {
			return n, true
		}
	}
	return 0, false
}

func countCars(text string) (int, bool) {
	if m := digitCarsPattern.FindStringSubmatch(text); m != nil {
		// Atoi saturates out-of-range runs at the int limits.
		n, err := strconv.Atoi(m[1])
		if err == nil || errors.Is(err, strconv.ErrRange) {
			return n, true
		}
	}
	if m := wordCarsPattern.FindStringSubmatch(text); m != nil {
		return numberWords[strings.ToLower(m[1])], true
	}
	if ownsACarPattern.MatchString(text) {
		return 1, true
	}
	return 0, false
}

func renderCars(ent Entities, n int) string {
	noun := "cars"
	if n == 1 {
		noun = "car"
	}
	if ent.Subject == "" {
		return fmt.Sprintf("They have %d %s.", n, noun)
	}
	return fmt.Sprintf("%s has %d %s.", ent.Subject, n, noun)
}
