// internal/common/errors/respond.go
package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HTTPStatus maps an error kind to the status code surfaced at the API boundary.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindDelivery:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Responder writes structured error responses and logs them consistently.
type Responder struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

func NewResponder(logger Logger) *Responder {
	return &Responder{logger: logger}
}

// Respond terminates the request with the status for err. Internal details are
// logged but only the message and kind leave the process.
func (r *Responder) Respond(c *gin.Context, err error) {
	status := HTTPStatus(err)

	fields := map[string]interface{}{
		"path":   c.FullPath(),
		"method": c.Request.Method,
		"kind":   string(KindOf(err)),
		"error":  err.Error(),
	}
	if status >= http.StatusInternalServerError {
		r.logger.Error("request failed", fields)
	} else {
		r.logger.Warn("request rejected", fields)
	}

	body := gin.H{"error": gin.H{"kind": KindOf(err)}}
	var e *Error
	if As(err, &e) {
		body["error"] = gin.H{"kind": e.Kind, "message": e.Message}
	}
	c.AbortWithStatusJSON(status, body)
}
