package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	availabilityRepo "medibook/database/repository/availability"
	"medibook/models"
	"medibook/utils"
)

// TemplateHandler is the operator surface for weekly availability templates.
type TemplateHandler struct {
	repo   availabilityRepo.TemplateRepository
	logger *zap.Logger
}

func NewTemplateHandler(repo availabilityRepo.TemplateRepository, logger *zap.Logger) *TemplateHandler {
	return &TemplateHandler{repo: repo, logger: logger}
}

// UpsertTemplate handles PUT /api/templates.
func (h *TemplateHandler) UpsertTemplate(c *gin.Context) {
	var tpl models.AvailabilityTemplate
	if err := c.ShouldBindJSON(&tpl); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	switch {
	case tpl.DoctorID == "" || tpl.HospitalID == "":
		utils.JSONError(c, http.StatusBadRequest, "invalid template", "doctor and hospital are required")
		return
	case tpl.Mode != models.ModeOnline && tpl.Mode != models.ModePhysical:
		utils.JSONError(c, http.StatusBadRequest, "invalid template", "mode must be online or physical")
		return
	case tpl.DayOfWeek < 0 || tpl.DayOfWeek > 6:
		utils.JSONError(c, http.StatusBadRequest, "invalid template", "dayOfWeek must be 0-6")
		return
	case tpl.Start < 0 || tpl.End > 24*60 || tpl.Start >= tpl.End:
		utils.JSONError(c, http.StatusBadRequest, "invalid template", "window must satisfy 0 <= start < end <= 1440")
		return
	case tpl.SlotDuration <= 0:
		utils.JSONError(c, http.StatusBadRequest, "invalid template", "slotDuration must be positive")
		return
	}

	if err := h.repo.Upsert(c.Request.Context(), &tpl); err != nil {
		h.logger.Error("template upsert failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to save template", "")
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// ListTemplates handles GET /api/templates/:doctorID.
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	templates, err := h.repo.ListByDoctor(c.Request.Context(), c.Param("doctorID"))
	if err != nil {
		h.logger.Error("template list failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to load templates", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// DeleteTemplate handles DELETE /api/templates/:id.
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	if err := h.repo.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
		utils.JSONError(c, http.StatusNotFound, "template not found", "")
		return
	}
	c.Status(http.StatusNoContent)
}
