package qa

import (
	"strings"
	"time"

	dps "github.com/markusmobius/go-dateparser"
)

// ISODate is the layout every extracted date is rendered in. Strings in this
// layout sort chronologically.
const ISODate = "2006-01-02"

// DateExtractor pulls a single calendar date out of free text.
type DateExtractor interface {
	Parse(text string) (string, bool)
}

// DateParser resolves natural-language dates, preferring the future when an
// expression is ambiguous ("Friday" is the coming Friday).
type DateParser struct {
	now      func() time.Time
	location *time.Location
}

type DateOption func(*DateParser)

// WithClock fixes the reference time relative expressions resolve against.
func WithClock(now func() time.Time) DateOption {
	return func(p *DateParser) {
		if now != nil {
			p.now = now
		}
	}
}

// WithLocation sets the timezone dates without an explicit zone are read in.
func WithLocation(loc *time.Location) DateOption {
	return func(p *DateParser) {
		if loc != nil {
			p.location = loc
		}
	}
}

func NewDateParser(opts ...DateOption) *DateParser {
	p := &DateParser{
		now:      time.Now,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse returns the first date found in text as YYYY-MM-DD. The whole text
// is tried as a date first; otherwise the earliest date expression embedded
// in the text wins.
func (p *DateParser) Parse(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	// English only: auto-detection reads "to" as Finnish for Thursday.
	cfg := &dps.Configuration{
		Languages:           []string{"en"},
		CurrentTime:         p.now().In(p.location),
		DefaultTimezone:     p.location,
		PreferredDateSource: dps.Future,
	}

	if dt, err := dps.Parse(cfg, text); err == nil && !dt.Time.IsZero() {
		return dt.Time.In(p.location).Format(ISODate), true
	}

	_, found, err := dps.Search(cfg, text)
	if err != nil {
		return "", false
	}
	for _, r := range found {
		if !r.Date.Time.IsZero() {
			return r.Date.Time.In(p.location).Format(ISODate), true
		}
	}
	return "", false
}
