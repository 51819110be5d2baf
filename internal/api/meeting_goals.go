package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"playbook-engine/internal/auth"
	apperrors "playbook-engine/internal/common/errors"
	"playbook-engine/internal/models"
	"playbook-engine/internal/store"
)

type meetingGoalHandler struct {
	goals   store.MeetingGoalStore
	respond *apperrors.Responder
}

func newMeetingGoalHandler(goals store.MeetingGoalStore, respond *apperrors.Responder) *meetingGoalHandler {
	return &meetingGoalHandler{goals: goals, respond: respond}
}

type meetingGoalRequest struct {
	StakeholderID string `json:"stakeholderId"`
	Description   string `json:"description" binding:"required"`
	TargetDate    string `json:"targetDate"` // RFC 3339 date, optional
}

func (h *meetingGoalHandler) Create(c *gin.Context) {
	var req meetingGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond.Respond(c, apperrors.NewValidationError("invalid meeting goal", err.Error()))
		return
	}

	goal := &models.MeetingGoal{
		ID:            uuid.New().String(),
		UserID:        c.GetString(auth.ContextUserID),
		StakeholderID: req.StakeholderID,
		Description:   req.Description,
	}
	if req.TargetDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.TargetDate)
		if err != nil {
			h.respond.Respond(c, apperrors.NewValidationError("invalid target date", req.TargetDate))
			return
		}
		goal.TargetDate = &parsed
	}

	if err := h.goals.Create(c.Request.Context(), goal); err != nil {
		h.respond.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, goal)
}

func (h *meetingGoalHandler) List(c *gin.Context) {
	out, err := h.goals.ListByUser(c.Request.Context(), c.GetString(auth.ContextUserID))
	if err != nil {
		h.respond.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meetingGoals": out})
}

func (h *meetingGoalHandler) Delete(c *gin.Context) {
	err := h.goals.DeleteForUser(c.Request.Context(), c.Param("id"), c.GetString(auth.ContextUserID))
	if err != nil {
		h.respond.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
