package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostelops/hostel-desk-api/internal/service"
	appErrors "github.com/hostelops/hostel-desk-api/pkg/errors"
	"github.com/hostelops/hostel-desk-api/pkg/response"
)

// ImportHandler exposes the legacy data ingestion endpoints.
type ImportHandler struct {
	service *service.ImportService
}

// NewImportHandler creates a new handler.
func NewImportHandler(svc *service.ImportService) *ImportHandler {
	return &ImportHandler{service: svc}
}

// Complaints godoc
// @Summary Import legacy complaints
// @Description Accepts a JSON array of legacy records with arbitrary key casing
// @Tags Import
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/import/complaints [post]
func (h *ImportHandler) Complaints(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read payload"))
		return
	}
	result, err := h.service.ImportComplaints(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Apologies godoc
// @Summary Import legacy apologies
// @Tags Import
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/import/apologies [post]
func (h *ImportHandler) Apologies(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read payload"))
		return
	}
	result, err := h.service.ImportApologies(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
