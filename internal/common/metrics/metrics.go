// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for QuestionsTotal.
const (
	OutcomeAnswered     = "answered"
	OutcomeNotFound     = "not_found"
	OutcomeUnrecognized = "unrecognized"
	OutcomeFailed       = "failed"
)

// Source label values for MessageFetches.
const (
	SourceUpstream = "upstream"
	SourceCache    = "cache"
	SourceInline   = "inline"
)

var (
	QuestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qa_questions_total",
			Help: "Total number of questions answered, by intent and outcome",
		},
		[]string{"intent", "outcome"},
	)

	QuestionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "qa_question_duration_seconds",
			Help:    "Time to answer a question, message fetch included",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"intent"},
	)

	QuestionsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "qa_questions_in_flight",
			Help: "Number of questions currently being answered",
		},
	)

	MessageFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qa_message_fetches_total",
			Help: "Message collections obtained, by source and result",
		},
		[]string{"source", "result"},
	)

	MessagesScanned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "qa_messages_scanned",
			Help:    "Size of the message collection each question was answered against",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		},
	)
)
