// internal/api/callback.go
package api

import (
	"crypto/subtle"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "playbook-engine/internal/common/errors"
	"playbook-engine/internal/playbook"
)

const maxCallbackBytes = int64(1 << 20)

// callbackHandler is the worker-facing sink. It acks duplicates, rejects
// malformed bodies with 400, unknown ids with 404, and never mutates a
// record on rejection.
type callbackHandler struct {
	receiver *playbook.Receiver
	token    string
	respond  *apperrors.Responder
}

func newCallbackHandler(receiver *playbook.Receiver, token string, respond *apperrors.Responder) *callbackHandler {
	return &callbackHandler{receiver: receiver, token: token, respond: respond}
}

func (h *callbackHandler) Handle(c *gin.Context) {
	// Shared-secret check, active only when a token is configured. The
	// default deployment accepts unauthenticated callbacks.
	if h.token != "" {
		provided := c.GetHeader("X-Callback-Token")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(h.token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"kind": "UNAUTHORIZED", "message": "invalid callback token"}})
			return
		}
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCallbackBytes))
	if err != nil {
		h.respond.Respond(c, apperrors.NewValidationError("unreadable callback body", err.Error()))
		return
	}

	if err := h.receiver.Process(c.Request.Context(), body); err != nil {
		h.respond.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
