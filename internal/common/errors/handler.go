// internal/common/errors/handler.go
package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorHandler turns errors into HTTP responses with standardized handling.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// ErrorResponse is the body written for any failed request. Answer is kept
// so clients that only read "answer" still get a readable sentence.
type ErrorResponse struct {
	Answer string         `json:"answer"`
	Error  *StandardError `json:"error"`
}

// Respond normalizes err, logs it and writes the matching status and body.
func (h *ErrorHandler) Respond(c *gin.Context, err error) {
	stdErr := Normalize(err)
	status := HTTPStatus(stdErr.Code)

	h.logError(c, stdErr, status)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Answer: answerFor(stdErr, status),
		Error:  stdErr,
	})
}

func answerFor(stdErr *StandardError, status int) string {
	if status >= http.StatusInternalServerError {
		detail := stdErr.Details
		if detail == "" {
			detail = stdErr.Message
		}
		return "Sorry, something went wrong: " + detail
	}
	if stdErr.Details != "" {
		return stdErr.Message + ": " + stdErr.Details
	}
	return stdErr.Message
}

func (h *ErrorHandler) logError(c *gin.Context, stdErr *StandardError, status int) {
	fields := map[string]interface{}{
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"retries":       GetRetryCount(stdErr.Code),
		"errorCategory": GetErrorCategory(stdErr.Code),
		"status":        status,
		"path":          c.FullPath(),
	}
	if id, ok := c.Get("requestId"); ok {
		fields["requestId"] = id
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", fields)
		return
	}
	h.logger.Warn("Request rejected", fields)
}
