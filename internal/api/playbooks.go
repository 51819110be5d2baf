// internal/api/playbooks.go
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"playbook-engine/internal/auth"
	apperrors "playbook-engine/internal/common/errors"
	"playbook-engine/internal/models"
	"playbook-engine/internal/playbook"
	"playbook-engine/internal/store"
)

type playbookHandler struct {
	playbooks  store.PlaybookStore
	dispatcher *playbook.Dispatcher
	respond    *apperrors.Responder
}

func newPlaybookHandler(playbooks store.PlaybookStore, dispatcher *playbook.Dispatcher, respond *apperrors.Responder) *playbookHandler {
	return &playbookHandler{playbooks: playbooks, dispatcher: dispatcher, respond: respond}
}

type dispatchRequest struct {
	StakeholderID string `json:"stakeholderId" binding:"required"`
	PlaybookType  string `json:"playbookType" binding:"required"`
}

func (h *playbookHandler) Dispatch(c *gin.Context) {
	var req dispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond.Respond(c, apperrors.NewValidationError("invalid dispatch request", err.Error()))
		return
	}

	record, err := h.dispatcher.Dispatch(c.Request.Context(), playbook.DispatchInput{
		UserID:        c.GetString(auth.ContextUserID),
		StakeholderID: req.StakeholderID,
		Type:          models.PlaybookType(req.PlaybookType),
	})
	if err != nil {
		h.respond.Respond(c, err)
		return
	}
	c.JSON(http.StatusAccepted, record)
}

func (h *playbookHandler) List(c *gin.Context) {
	records, err := h.playbooks.ListByUser(c.Request.Context(), c.GetString(auth.ContextUserID))
	if err != nil {
		h.respond.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"playbooks": records})
}

func (h *playbookHandler) Get(c *gin.Context) {
	record, err := h.playbooks.GetForUser(c.Request.Context(), c.Param("id"), c.GetString(auth.ContextUserID))
	if err != nil {
		h.respond.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *playbookHandler) Delete(c *gin.Context) {
	err := h.playbooks.DeleteForUser(c.Request.Context(), c.Param("id"), c.GetString(auth.ContextUserID))
	if err != nil {
		h.respond.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *playbookHandler) AdminList(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 1000 {
			limit = parsed
		}
	}
	records, err := h.playbooks.ListAll(c.Request.Context(), limit)
	if err != nil {
		h.respond.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"playbooks": records})
}
