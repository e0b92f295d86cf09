package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unilink-bg/unilink-api/internal/models"
	"github.com/unilink-bg/unilink-api/internal/service"
	"github.com/unilink-bg/unilink-api/pkg/config"
	appErrors "github.com/unilink-bg/unilink-api/pkg/errors"
	"github.com/unilink-bg/unilink-api/pkg/response"
)

// DashboardHandler serves the portal entry point and the role-specific
// dashboards.
type DashboardHandler struct {
	dashboards *service.DashboardService
	portal     config.PortalConfig
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(dashboards *service.DashboardService, portal config.PortalConfig) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, portal: portal}
}

// Dispatch routes the authenticated identity to its role dashboard.
// The switch is exhaustive over the role type; unknown roles fail
// loudly instead of falling through to a default view.
func (h *DashboardHandler) Dispatch(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	user, err := h.dashboards.Resolve(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	switch user.Role {
	case models.RoleStudent:
		response.Redirect(c, h.portal.StudentDashboardPath)
	case models.RoleLecturer:
		response.Redirect(c, h.portal.LecturerDashboardPath)
	case models.RoleAdmin:
		response.JSON(c, http.StatusOK, h.dashboards.GenericView(user), nil)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "unknown role"))
	}
}

// Student serves the student dashboard. A non-student landing here is
// bounced back to the dispatcher rather than served a foreign view.
func (h *DashboardHandler) Student(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	view, err := h.dashboards.StudentView(c.Request.Context(), claims.UserID)
	if err != nil {
		h.bounceOrError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Lecturer serves the lecturer dashboard with the same re-check.
func (h *DashboardHandler) Lecturer(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	view, err := h.dashboards.LecturerView(c.Request.Context(), claims.UserID)
	if err != nil {
		h.bounceOrError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

func (h *DashboardHandler) bounceOrError(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Code == appErrors.ErrForbidden.Code {
		response.Redirect(c, h.portal.DashboardPath)
		return
	}
	response.Error(c, err)
}
