package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"playbook-engine/internal/auth"
	apperrors "playbook-engine/internal/common/errors"
	"playbook-engine/internal/store"
)

type meHandler struct {
	users         store.UserStore
	subscriptions store.SubscriptionStore
	respond       *apperrors.Responder
}

func newMeHandler(users store.UserStore, subscriptions store.SubscriptionStore, respond *apperrors.Responder) *meHandler {
	return &meHandler{users: users, subscriptions: subscriptions, respond: respond}
}

func (h *meHandler) Get(c *gin.Context) {
	userID := c.GetString(auth.ContextUserID)
	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.respond.Respond(c, err)
		return
	}

	sub, err := h.subscriptions.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		h.respond.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
		"subscription": gin.H{
			"tier":         sub.EffectiveTier(),
			"pendingLimit": sub.EffectiveTier().PendingLimit(),
		},
	})
}
