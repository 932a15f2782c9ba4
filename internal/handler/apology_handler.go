package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostelops/hostel-desk-api/internal/dto"
	"github.com/hostelops/hostel-desk-api/internal/models"
	"github.com/hostelops/hostel-desk-api/internal/service"
	appErrors "github.com/hostelops/hostel-desk-api/pkg/errors"
	"github.com/hostelops/hostel-desk-api/pkg/response"
)

// ApologyHandler wires apology letter endpoints to the service layer.
type ApologyHandler struct {
	service  *service.ApologyService
	exporter *service.ExportService
}

// NewApologyHandler creates a new handler.
func NewApologyHandler(svc *service.ApologyService, exporter *service.ExportService) *ApologyHandler {
	return &ApologyHandler{service: svc, exporter: exporter}
}

// List godoc
// @Summary List apology letters
// @Tags Apologies
// @Produce json
// @Param status query string false "Status filter (verbatim apology vocabulary, or all)"
// @Param category query string false "Category filter"
// @Param dateFrom query string false "Creation lower bound (YYYY-MM-DD)"
// @Param dateTo query string false "Creation upper bound (YYYY-MM-DD)"
// @Param q query string false "Free text search"
// @Success 200 {object} response.Envelope
// @Router /admin/apologies [get]
func (h *ApologyHandler) List(c *gin.Context) {
	cfg, search := filterFromQuery(c)
	page, pageSize := pageFromQuery(c)
	filter := models.ApologyFilter{Page: page, PageSize: pageSize}

	result, pagination, err := h.service.List(c.Request.Context(), filter, cfg, search)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, pagination)
}

// ListMine lists the authenticated student's own letters.
func (h *ApologyHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	cfg, search := filterFromQuery(c)
	page, pageSize := pageFromQuery(c)
	filter := models.ApologyFilter{StudentID: claims.UserID, Page: page, PageSize: pageSize}

	result, pagination, err := h.service.List(c.Request.Context(), filter, cfg, search)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, pagination)
}

// Get godoc
// @Summary Apology detail
// @Tags Apologies
// @Produce json
// @Param id path string true "Apology ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/apologies/{id} [get]
func (h *ApologyHandler) Get(c *gin.Context) {
	apology, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apology, nil)
}

// Create godoc
// @Summary Submit an apology letter
// @Tags Apologies
// @Accept json
// @Produce json
// @Param payload body dto.CreateApologyRequest true "Apology payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /student/apologies [post]
func (h *ApologyHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateApologyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid apology payload"))
		return
	}
	student := models.StudentRef{ID: claims.UserID, Name: claims.FullName}
	apology, err := h.service.Create(c.Request.Context(), student, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, apology)
}

// Review godoc
// @Summary Review an apology letter
// @Tags Apologies
// @Accept json
// @Produce json
// @Param id path string true "Apology ID"
// @Param payload body dto.ReviewApologyRequest true "Review payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/apologies/{id}/review [put]
func (h *ApologyHandler) Review(c *gin.Context) {
	var req dto.ReviewApologyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid review payload"))
		return
	}
	apology, err := h.service.Review(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apology, nil)
}

// Export godoc
// @Summary Export filtered apologies
// @Tags Apologies
// @Produce octet-stream
// @Param format query string true "csv or json"
// @Router /admin/apologies/export [get]
func (h *ApologyHandler) Export(c *gin.Context) {
	cfg, search := filterFromQuery(c)
	format := models.ReportFormat(c.DefaultQuery("format", "csv"))

	out, err := h.exporter.ApologiesInline(c.Request.Context(), format, cfg, search)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "export failed"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	c.Data(http.StatusOK, out.ContentType, out.Payload)
}
