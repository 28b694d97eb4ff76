// Package qa answers member questions from a collection of chat messages.
//
// A question is classified into one Intent, its subject and location are
// pulled out with regex heuristics, and the matching extractor scans the
// messages for evidence. The result is rendered from fixed templates, or a
// fixed fallback sentence when nothing was found. Nothing here performs I/O or
// keeps state between calls, so an Engine is safe for concurrent use.
package qa

import (
	"strings"

	"github.com/BalRam15/Assignment-qa-services/internal/models"
)

const (
	TripNotFound        = "I couldn't find a trip date for that member/location in the messages."
	CarsNotFound        = "I couldn't find a car count for that member."
	RestaurantsNotFound = "I couldn't find favorite restaurants for that member."
	UnrecognizedAnswer  = "Sorry, I don't recognize that question type yet. Try trips, cars, or favorite restaurants."
)

// Result describes how a question was answered.
type Result struct {
	Question string
	Intent   Intent
	Entities Entities
	Found    bool
	Answer   string
	Scanned  int
}

// Engine runs the classify, extract, render pipeline.
type Engine struct {
	dates DateExtractor
}

type Option func(*Engine)

// WithDateExtractor replaces the natural-language date parser.
func WithDateExtractor(d DateExtractor) Option {
	return func(e *Engine) {
		if d != nil {
			e.dates = d
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{dates: NewDateParser()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolve answers question against messages and reports what was decided.
// It never fails: missing evidence becomes the intent's fallback sentence.
func (e *Engine) Resolve(question string, messages []models.Message) Result {
	q := strings.TrimSpace(question)
	res := Result{
		Question: q,
		Intent:   Classify(q),
		Scanned:  len(messages),
	}

	if res.Intent == IntentUnknown {
		res.Answer = UnrecognizedAnswer
		return res
	}
	res.Entities = ExtractEntities(q)

	switch res.Intent {
	case IntentTripWhen:
		res.Answer = TripNotFound
		if date, ok := e.tripDate(messages, res.Entities); ok {
			res.Found, res.Answer = true, renderTrip(res.Entities, date)
		}
	case IntentCarCount:
		res.Answer = CarsNotFound
		if n, ok := e.carCount(messages, res.Entities); ok {
			res.Found, res.Answer = true, renderCars(res.Entities, n)
		}
	case IntentFavoriteRestaurants:
		res.Answer = RestaurantsNotFound
		if names, ok := e.favoriteRestaurants(messages, res.Entities); ok {
			res.Found, res.Answer = true, renderRestaurants(res.Entities, names)
		}
	}
	return res
}

// Answer returns only the rendered answer.
func (e *Engine) Answer(question string, messages []models.Message) string {
	return e.Resolve(question, messages).Answer
}

var defaultEngine = NewEngine()

// AnswerQuestion answers with a default Engine reading dates relative to now.
func AnswerQuestion(question string, messages []models.Message) string {
	return defaultEngine.Answer(question, messages)
}
