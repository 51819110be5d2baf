package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "playbook-engine/internal/common/errors"
	"playbook-engine/internal/models"
	"playbook-engine/internal/store"
)

type optionHandler struct {
	options store.OptionStore
	respond *apperrors.Responder
}

func newOptionHandler(options store.OptionStore, respond *apperrors.Responder) *optionHandler {
	return &optionHandler{options: options, respond: respond}
}

func (h *optionHandler) List(c *gin.Context) {
	out, err := h.options.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		h.respond.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"options": out})
}

type optionRequest struct {
	Category  string `json:"category" binding:"required"`
	Value     string `json:"value" binding:"required"`
	Label     string `json:"label" binding:"required"`
	SortOrder int    `json:"sortOrder"`
}

func (h *optionHandler) Create(c *gin.Context) {
	var req optionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond.Respond(c, apperrors.NewValidationError("invalid option", err.Error()))
		return
	}

	option := &models.DropdownOption{
		ID:        uuid.New().String(),
		Category:  req.Category,
		Value:     req.Value,
		Label:     req.Label,
		SortOrder: req.SortOrder,
	}
	if err := h.options.Create(c.Request.Context(), option); err != nil {
		h.respond.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, option)
}

func (h *optionHandler) Delete(c *gin.Context) {
	if err := h.options.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respond.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
