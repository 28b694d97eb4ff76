package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/BalRam15/Assignment-qa-services/internal/common/errors"
	"github.com/BalRam15/Assignment-qa-services/internal/common/validation"
	"github.com/BalRam15/Assignment-qa-services/internal/models"
	answerquestion "github.com/BalRam15/Assignment-qa-services/internal/workers/qa/answer-question"
	"github.com/gin-gonic/gin"
)

// AskResponse is the body of a successful /ask call. Debug is only set when
// the caller asked for it.
type AskResponse struct {
	Answer string `json:"answer"`
	*AskDebug
}

type AskDebug struct {
	Intent          string `json:"intent"`
	Subject         string `json:"subject,omitempty"`
	Location        string `json:"location,omitempty"`
	Found           bool   `json:"found"`
	MessagesScanned int    `json:"messagesScanned"`
	Source          string `json:"source"`
}

type askRequest struct {
	Question string           `json:"question"`
	Messages []models.Message `json:"messages"`
	Debug    bool             `json:"debug"`
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) ready(c *gin.Context) {
	checks := make(map[string]string, len(s.readiness))
	status := http.StatusOK

	for name, check := range s.readiness {
		if err := check(c.Request.Context()); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	c.JSON(status, gin.H{
		"status": state,
		"checks": checks,
		"time":   time.Now().Format(time.RFC3339),
	})
}

// askQuery handles GET /ask?q=...
func (s *Server) askQuery(c *gin.Context) {
	question := c.Query("q")
	if strings.TrimSpace(question) == "" {
		s.errors.Respond(c, apperrors.NewInvalidQuestionError("query parameter q is required"))
		return
	}

	s.answer(c, &answerquestion.Input{Question: question}, queryFlag(c, "debug"))
}

// askBody handles POST /ask. A messages array in the body is answered against
// directly; otherwise the upstream collection is fetched.
func (s *Server) askBody(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		s.errors.Respond(c, apperrors.NewInvalidRequestBodyError(err.Error()))
		return
	}

	result, err := validation.ValidateAskRequest(body)
	if err != nil {
		s.errors.Respond(c, apperrors.NewInvalidRequestBodyError(err.Error()))
		return
	}
	if !result.Valid {
		s.errors.Respond(c, apperrors.NewInvalidRequestBodyError(strings.Join(result.GetErrorMessages(), "; ")).
			WithMetadata("errors", result.Errors))
		return
	}

	var req askRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.errors.Respond(c, apperrors.NewInvalidRequestBodyError(err.Error()))
		return
	}

	input := &answerquestion.Input{Question: req.Question, Messages: req.Messages}
	s.answer(c, input, req.Debug || queryFlag(c, "debug"))
}

func (s *Server) answer(c *gin.Context, input *answerquestion.Input, debug bool) {
	out, err := s.answerer.Execute(c.Request.Context(), input)
	if err != nil {
		s.errors.Respond(c, err)
		return
	}

	resp := AskResponse{Answer: out.Answer}
	if debug {
		resp.AskDebug = &AskDebug{
			Intent:          out.Intent,
			Subject:         out.Subject,
			Location:        out.Location,
			Found:           out.Found,
			MessagesScanned: out.MessagesScanned,
			Source:          out.Source,
		}
	}
	c.JSON(http.StatusOK, resp)
}

func queryFlag(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.Query(name))
	return err == nil && v
}
