package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unilink-bg/unilink-api/internal/models"
	"github.com/unilink-bg/unilink-api/internal/service"
	appErrors "github.com/unilink-bg/unilink-api/pkg/errors"
	"github.com/unilink-bg/unilink-api/pkg/response"
)

// ApplicationHandler exposes the admin review endpoints over submitted
// applications, plus the roster exports.
type ApplicationHandler struct {
	applications *service.ApplicationService
	exports      *service.ExportService
}

// NewApplicationHandler constructs the handler.
func NewApplicationHandler(applications *service.ApplicationService, exports *service.ExportService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, exports: exports}
}

// ListStudent returns student applications.
func (h *ApplicationHandler) ListStudent(c *gin.Context) {
	result, err := h.applications.ListStudent(c.Request.Context(), applicationFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.Applications, &result.Pagination)
}

// ListLecturer returns lecturer applications.
func (h *ApplicationHandler) ListLecturer(c *gin.Context) {
	result, err := h.applications.ListLecturer(c.Request.Context(), applicationFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.Applications, &result.Pagination)
}

// GetStudent returns a student application.
func (h *ApplicationHandler) GetStudent(c *gin.Context) {
	app, err := h.applications.GetStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app, nil)
}

// GetLecturer returns a lecturer application.
func (h *ApplicationHandler) GetLecturer(c *gin.Context) {
	app, err := h.applications.GetLecturer(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app, nil)
}

// ChangeStudentStatus moves a student application through its review
// pipeline.
func (h *ApplicationHandler) ChangeStudentStatus(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var req service.StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	app, err := h.applications.ChangeStudentStatus(c.Request.Context(), c.Param("id"), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app, nil)
}

// ChangeLecturerStatus moves a lecturer application through its review
// pipeline.
func (h *ApplicationHandler) ChangeLecturerStatus(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var req service.StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	app, err := h.applications.ChangeLecturerStatus(c.Request.Context(), c.Param("id"), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app, nil)
}

// ExportStudent streams the student roster as CSV or PDF.
func (h *ApplicationHandler) ExportStudent(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	file, err := h.exports.StudentRoster(c.Request.Context(), c.DefaultQuery("format", "csv"), applicationFilter(c), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveExport(c, file)
}

// ExportLecturer streams the lecturer roster as CSV or PDF.
func (h *ApplicationHandler) ExportLecturer(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	file, err := h.exports.LecturerRoster(c.Request.Context(), c.DefaultQuery("format", "csv"), applicationFilter(c), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveExport(c, file)
}

func serveExport(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

func applicationFilter(c *gin.Context) models.ApplicationFilter {
	return models.ApplicationFilter{
		Status:   c.Query("status"),
		Search:   c.Query("search"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}
}
