package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostelops/hostel-desk-api/internal/dto"
	"github.com/hostelops/hostel-desk-api/internal/service"
	appErrors "github.com/hostelops/hostel-desk-api/pkg/errors"
	"github.com/hostelops/hostel-desk-api/pkg/response"
)

// PresetHandler exposes saved filter preset endpoints.
type PresetHandler struct {
	service *service.PresetService
}

// NewPresetHandler creates a new handler.
func NewPresetHandler(svc *service.PresetService) *PresetHandler {
	return &PresetHandler{service: svc}
}

// Save godoc
// @Summary Save a filter preset
// @Description Upserts a named filter configuration for one list view
// @Tags Presets
// @Accept json
// @Produce json
// @Param payload body dto.SavePresetRequest true "Preset payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /presets [put]
func (h *PresetHandler) Save(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SavePresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid preset payload"))
		return
	}
	preset, err := h.service.Save(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preset, nil)
}

// List godoc
// @Summary List saved presets
// @Tags Presets
// @Produce json
// @Param view query string false "Scope to one list view"
// @Success 200 {object} response.Envelope
// @Router /presets [get]
func (h *PresetHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	presets, err := h.service.List(c.Request.Context(), claims.UserID, c.Query("view"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, presets, nil)
}

// Delete godoc
// @Summary Delete a preset
// @Tags Presets
// @Param id path string true "Preset ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /presets/{id} [delete]
func (h *PresetHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
