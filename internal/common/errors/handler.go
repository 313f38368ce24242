package errors

import (
	"github.com/gin-gonic/gin"
)

// Logger is the subset of the logging interface the responder needs.
type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Responder writes StandardErrors as JSON responses.
type Responder struct {
	logger Logger
}

func NewResponder(logger Logger) *Responder {
	return &Responder{logger: logger}
}

// Respond normalizes err, logs it and aborts the request with the mapped status.
func (r *Responder) Respond(c *gin.Context, err error) {
	stdErr := Normalize(err)
	status := HTTPStatus(stdErr.Code)

	fields := map[string]interface{}{
		"method":        c.Request.Method,
		"path":          c.FullPath(),
		"status":        status,
		"errorCode":     string(stdErr.Code),
		"details":       stdErr.Details,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	if status >= 500 {
		r.logger.Error("request failed", fields)
	} else {
		r.logger.Warn("request rejected", fields)
	}

	c.AbortWithStatusJSON(status, gin.H{"error": stdErr})
}
