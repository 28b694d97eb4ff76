package answerquestion

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "github.com/BalRam15/Assignment-qa-services/internal/common/errors"
	"github.com/BalRam15/Assignment-qa-services/internal/common/logger"
	"github.com/BalRam15/Assignment-qa-services/internal/common/metrics"
	"github.com/BalRam15/Assignment-qa-services/internal/models"
	"github.com/BalRam15/Assignment-qa-services/internal/qa"
)

const (
	TaskType = "answer-question"
)

var ErrNoMessageSource = errors.New("no message source configured")

// MessageSource supplies the message collection for one question.
type MessageSource interface {
	FetchMessages(ctx context.Context) ([]models.Message, error)
}

type Handler struct {
	config *Config
	source MessageSource
	engine *qa.Engine
	logger logger.Logger
}

func NewHandler(config *Config, source MessageSource, log logger.Logger) *Handler {
	dates := config.Dates
	if dates == nil {
		dates = qa.NewDateParser(qa.WithLocation(config.Location))
	}

	return &Handler{
		config: config,
		source: source,
		engine: qa.NewEngine(qa.WithDateExtractor(dates)),
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

// Execute answers one question. Only a blank question or a failed message
// fetch produce an error; missing evidence is a normal Output.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, apperrors.NewInvalidQuestionError("question must not be blank")
	}

	metrics.QuestionsInFlight.Inc()
	defer metrics.QuestionsInFlight.Dec()
	start := time.Now()

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	messages, source, err := h.loadMessages(ctx, input)
	if err != nil {
		intent := qa.Classify(question)
		metrics.QuestionsTotal.WithLabelValues(string(intent), metrics.OutcomeFailed).Inc()
		metrics.QuestionDuration.WithLabelValues(string(intent)).Observe(time.Since(start).Seconds())
		h.logger.WithError(err).Error("failed to load messages", map[string]interface{}{
			"question": question,
			"intent":   string(intent),
		})
		return nil, err
	}

	res := h.engine.Resolve(question, messages)

	metrics.QuestionsTotal.WithLabelValues(string(res.Intent), outcome(res)).Inc()
	metrics.QuestionDuration.WithLabelValues(string(res.Intent)).Observe(time.Since(start).Seconds())
	metrics.MessagesScanned.Observe(float64(res.Scanned))

	h.logger.Info("question answered", map[string]interface{}{
		"intent":          string(res.Intent),
		"subject":         res.Entities.Subject,
		"location":        res.Entities.Location,
		"found":           res.Found,
		"messagesScanned": res.Scanned,
		"source":          source,
		"durationMs":      time.Since(start).Milliseconds(),
	})

	return &Output{
		Answer:          res.Answer,
		Intent:          string(res.Intent),
		Subject:         res.Entities.Subject,
		Location:        res.Entities.Location,
		Found:           res.Found,
		MessagesScanned: res.Scanned,
		Source:          source,
	}, nil
}

func (h *Handler) loadMessages(ctx context.Context, input *Input) ([]models.Message, string, error) {
	if input.Messages != nil {
		metrics.MessageFetches.WithLabelValues(metrics.SourceInline, "ok").Inc()
		return input.Messages, metrics.SourceInline, nil
	}
	if h.source == nil {
		return nil, "", apperrors.NewInternalError(ErrNoMessageSource)
	}

	messages, err := h.source.FetchMessages(ctx)
	if err != nil {
		if _, ok := apperrors.AsStandardError(err); ok {
			return nil, "", err
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, "", apperrors.NewMessageFetchTimeoutError("", err)
		}
		return nil, "", apperrors.NewMessageFetchFailedError("", err)
	}
	return messages, metrics.SourceUpstream, nil
}

func outcome(res qa.Result) string {
	switch {
	case res.Intent == qa.IntentUnknown:
		return metrics.OutcomeUnrecognized
	case res.Found:
		return metrics.OutcomeAnswered
	default:
		return metrics.OutcomeNotFound
	}
}
