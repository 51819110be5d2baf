// internal/api/stakeholders.go
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"playbook-engine/internal/auth"
	apperrors "playbook-engine/internal/common/errors"
	"playbook-engine/internal/common/logger"
	"playbook-engine/internal/models"
	"playbook-engine/internal/store"
)

type stakeholderHandler struct {
	stakeholders store.StakeholderStore
	search       store.StakeholderIndex
	respond      *apperrors.Responder
	logger       logger.Logger
}

func newStakeholderHandler(stakeholders store.StakeholderStore, search store.StakeholderIndex, respond *apperrors.Responder, log logger.Logger) *stakeholderHandler {
	return &stakeholderHandler{stakeholders: stakeholders, search: search, respond: respond, logger: log}
}

type stakeholderRequest struct {
	Name         string `json:"name" binding:"required"`
	Title        string `json:"title"`
	Company      string `json:"company"`
	Influence    string `json:"influence" binding:"required"`
	Relationship string `json:"relationship" binding:"required"`
	Notes        string `json:"notes"`
}

func (r *stakeholderRequest) validate() error {
	if !models.InfluenceLevel(r.Influence).Valid() {
		return apperrors.NewValidationError("invalid influence level", r.Influence)
	}
	if !models.RelationshipLevel(r.Relationship).Valid() {
		return apperrors.NewValidationError("invalid relationship level", r.Relationship)
	}
	return nil
}

func (h *stakeholderHandler) Create(c *gin.Context) {
	var req stakeholderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond.Respond(c, apperrors.NewValidationError("invalid stakeholder", err.Error()))
		return
	}
	if err := req.validate(); err != nil {
		h.respond.Respond(c, err)
		return
	}

	s := &models.Stakeholder{
		ID:           uuid.New().String(),
		UserID:       c.GetString(auth.ContextUserID),
		Name:         req.Name,
		Title:        req.Title,
		Company:      req.Company,
		Influence:    models.InfluenceLevel(req.Influence),
		Relationship: models.RelationshipLevel(req.Relationship),
		Notes:        req.Notes,
	}
	if err := h.stakeholders.Create(c.Request.Context(), s); err != nil {
		h.respond.Respond(c, err)
		return
	}
	h.index(c, s)
	c.JSON(http.StatusCreated, s)
}

func (h *stakeholderHandler) List(c *gin.Context) {
	out, err := h.stakeholders.ListByUser(c.Request.Context(), c.GetString(auth.ContextUserID))
	if err != nil {
		h.respond.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stakeholders": out})
}

func (h *stakeholderHandler) Get(c *gin.Context) {
	s, err := h.stakeholders.GetForUser(c.Request.Context(), c.Param("id"), c.GetString(auth.ContextUserID))
	if err != nil {
		h.respond.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *stakeholderHandler) Update(c *gin.Context) {
	var req stakeholderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond.Respond(c, apperrors.NewValidationError("invalid stakeholder", err.Error()))
		return
	}
	if err := req.validate(); err != nil {
		h.respond.Respond(c, err)
		return
	}

	s := &models.Stakeholder{
		ID:           c.Param("id"),
		UserID:       c.GetString(auth.ContextUserID),
		Name:         req.Name,
		Title:        req.Title,
		Company:      req.Company,
		Influence:    models.InfluenceLevel(req.Influence),
		Relationship: models.RelationshipLevel(req.Relationship),
		Notes:        req.Notes,
	}
	if err := h.stakeholders.Update(c.Request.Context(), s); err != nil {
		h.respond.Respond(c, err)
		return
	}
	h.index(c, s)
	c.JSON(http.StatusOK, s)
}

func (h *stakeholderHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.stakeholders.DeleteForUser(c.Request.Context(), id, c.GetString(auth.ContextUserID)); err != nil {
		h.respond.Respond(c, err)
		return
	}
	if h.search != nil {
		if err := h.search.Delete(c.Request.Context(), id); err != nil {
			h.logger.Warn("search index delete failed", map[string]interface{}{"stakeholderId": id, "error": err.Error()})
		}
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *stakeholderHandler) Search(c *gin.Context) {
	if h.search == nil {
		h.respond.Respond(c, apperrors.NewInternalError("search is not configured", nil))
		return
	}
	results, err := h.search.Search(c.Request.Context(), c.GetString(auth.ContextUserID), c.Query("q"), 20)
	if err != nil {
		h.respond.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stakeholders": results})
}

// index mirrors a write into elasticsearch. The relational row is the source
// of truth; failures only get a log line.
func (h *stakeholderHandler) index(c *gin.Context, s *models.Stakeholder) {
	if h.search == nil {
		return
	}
	if err := h.search.Index(c.Request.Context(), s); err != nil {
		h.logger.Warn("search index write failed", map[string]interface{}{
			"stakeholderId": s.ID,
			"error":         err.Error(),
		})
	}
}
