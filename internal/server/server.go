// Package server exposes the question answering worker over HTTP.
package server

import (
	"context"
	"net/http"

	apperrors "github.com/BalRam15/Assignment-qa-services/internal/common/errors"
	"github.com/BalRam15/Assignment-qa-services/internal/common/logger"
	"github.com/BalRam15/Assignment-qa-services/internal/common/observability"
	answerquestion "github.com/BalRam15/Assignment-qa-services/internal/workers/qa/answer-question"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Answerer is satisfied by *answerquestion.Handler.
type Answerer interface {
	Execute(ctx context.Context, input *answerquestion.Input) (*answerquestion.Output, error)
}

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

type Server struct {
	answerer       Answerer
	errors         *apperrors.ErrorHandler
	obs            *observability.Observability
	metricsHandler http.Handler
	readiness      map[string]ReadinessCheck
	logger         logger.Logger
	router         *gin.Engine
}

type Option func(*Server)

func WithObservability(obs *observability.Observability) Option {
	return func(s *Server) {
		s.obs = obs
	}
}

// WithMetricsHandler replaces the default prometheus handler on /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metricsHandler = h
	}
}

// WithReadinessCheck adds a named check to /ready.
func WithReadinessCheck(name string, check ReadinessCheck) Option {
	return func(s *Server) {
		s.readiness[name] = check
	}
}

func New(answerer Answerer, log logger.Logger, opts ...Option) *Server {
	s := &Server{
		answerer:       answerer,
		metricsHandler: promhttp.Handler(),
		readiness:      make(map[string]ReadinessCheck),
		logger:         log.WithFields(map[string]interface{}{"component": "server"}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.errors = apperrors.NewErrorHandler(s.logger)
	s.router = s.routes()
	return s
}

// Handler returns the router for use with http.Server or httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID())
	if s.obs != nil {
		r.Use(s.obs.Middleware())
	}
	r.Use(s.accessLog())

	r.GET("/healthz", s.healthz)
	r.GET("/health", s.health)
	r.GET("/ready", s.ready)
	r.GET("/metrics", gin.WrapH(s.metricsHandler))

	r.GET("/ask", s.askQuery)
	r.POST("/ask", s.askBody)

	return r
}
