package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostelops/hostel-desk-api/internal/dto"
	"github.com/hostelops/hostel-desk-api/internal/models"
	"github.com/hostelops/hostel-desk-api/internal/service"
	appErrors "github.com/hostelops/hostel-desk-api/pkg/errors"
	"github.com/hostelops/hostel-desk-api/pkg/response"
)

// ComplaintHandler wires complaint endpoints to the service layer.
type ComplaintHandler struct {
	service  *service.ComplaintService
	exporter *service.ExportService
}

// NewComplaintHandler creates a new handler.
func NewComplaintHandler(svc *service.ComplaintService, exporter *service.ExportService) *ComplaintHandler {
	return &ComplaintHandler{service: svc, exporter: exporter}
}

// List godoc
// @Summary List complaints
// @Description Filtered complaint list with aggregate stats over the same set
// @Tags Complaints
// @Produce json
// @Param status query string false "Status filter (any raw spelling, or all)"
// @Param category query string false "Category filter"
// @Param priority query string false "Priority filter"
// @Param dateFrom query string false "Creation lower bound (YYYY-MM-DD)"
// @Param dateTo query string false "Creation upper bound (YYYY-MM-DD)"
// @Param q query string false "Free text search"
// @Success 200 {object} response.Envelope
// @Router /admin/complaints [get]
func (h *ComplaintHandler) List(c *gin.Context) {
	cfg, search := filterFromQuery(c)
	page, pageSize := pageFromQuery(c)
	filter := models.ComplaintFilter{Page: page, PageSize: pageSize}

	result, pagination, err := h.service.List(c.Request.Context(), filter, cfg, search)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, pagination)
}

// ListMine lists the authenticated student's own complaints.
func (h *ComplaintHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	cfg, search := filterFromQuery(c)
	page, pageSize := pageFromQuery(c)
	filter := models.ComplaintFilter{StudentID: claims.UserID, Page: page, PageSize: pageSize}

	result, pagination, err := h.service.List(c.Request.Context(), filter, cfg, search)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, pagination)
}

// Get godoc
// @Summary Complaint detail
// @Tags Complaints
// @Produce json
// @Param id path string true "Complaint ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/complaints/{id} [get]
func (h *ComplaintHandler) Get(c *gin.Context) {
	complaint, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, complaint, nil)
}

// Create godoc
// @Summary Submit a complaint
// @Description Multipart form with optional file attachments
// @Tags Complaints
// @Accept mpfd
// @Produce json
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /student/complaints [post]
func (h *ComplaintHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateComplaintRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid complaint payload"))
		return
	}

	uploads, err := readUploads(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	student := models.StudentRef{
		ID:     claims.UserID,
		Name:   claims.FullName,
		RoomNo: c.PostForm("roomNo"),
		Block:  c.PostForm("block"),
	}
	complaint, err := h.service.Create(c.Request.Context(), student, req, uploads)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, complaint)
}

// UpdateStatus godoc
// @Summary Transition complaint status
// @Tags Complaints
// @Accept json
// @Produce json
// @Param id path string true "Complaint ID"
// @Param payload body dto.UpdateComplaintStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/complaints/{id}/status [put]
func (h *ComplaintHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateComplaintStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	complaint, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, complaint, nil)
}

// Export godoc
// @Summary Export filtered complaints
// @Description Direct CSV or JSON download of the current filtered set
// @Tags Complaints
// @Produce octet-stream
// @Param format query string true "csv or json"
// @Router /admin/complaints/export [get]
func (h *ComplaintHandler) Export(c *gin.Context) {
	cfg, search := filterFromQuery(c)
	format := models.ReportFormat(c.DefaultQuery("format", "csv"))

	out, err := h.exporter.ComplaintsInline(c.Request.Context(), format, cfg, search)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "export failed"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	c.Data(http.StatusOK, out.ContentType, out.Payload)
}

// DownloadAttachment streams an attachment behind its signed token.
func (h *ComplaintHandler) DownloadAttachment(c *gin.Context) {
	attachment, file, err := h.service.OpenAttachment(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.FileName))
	c.Header("Content-Type", attachment.ContentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, file); err != nil {
		_ = c.Error(err)
	}
}

func readUploads(c *gin.Context) ([]service.AttachmentUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// Plain form posts without files are fine.
		return nil, nil
	}
	files := form.File["attachments"]
	uploads := make([]service.AttachmentUpload, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read attachment")
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read attachment")
		}
		uploads = append(uploads, service.AttachmentUpload{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return uploads, nil
}
