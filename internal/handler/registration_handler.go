package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unilink-bg/unilink-api/internal/service"
	"github.com/unilink-bg/unilink-api/pkg/config"
	appErrors "github.com/unilink-bg/unilink-api/pkg/errors"
	"github.com/unilink-bg/unilink-api/pkg/response"
)

// RegistrationHandler exposes the public registration endpoints. No
// session is established by a successful submission; the account
// remains unapproved until an administrator acts.
type RegistrationHandler struct {
	registration *service.RegistrationService
	portal       config.PortalConfig
}

// NewRegistrationHandler constructs the handler.
func NewRegistrationHandler(registration *service.RegistrationService, portal config.PortalConfig) *RegistrationHandler {
	return &RegistrationHandler{registration: registration, portal: portal}
}

// Options returns the live form choices: active specialties and open
// job postings.
func (h *RegistrationHandler) Options(c *gin.Context) {
	options, err := h.registration.Options(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, options, nil)
}

// RegisterStudent accepts a combined identity and student application
// submission.
func (h *RegistrationHandler) RegisterStudent(c *gin.Context) {
	var req service.StudentRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	result, err := h.registration.RegisterStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.respondSubmitted(c, result)
}

// RegisterLecturer accepts a combined identity and lecturer
// application submission.
func (h *RegistrationHandler) RegisterLecturer(c *gin.Context) {
	var req service.LecturerRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	result, err := h.registration.RegisterLecturer(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.respondSubmitted(c, result)
}

// respondSubmitted redirects form flows to the pending notice page and
// answers API clients with the pending payload.
func (h *RegistrationHandler) respondSubmitted(c *gin.Context, result *service.RegistrationResult) {
	if wantsHTML(c) {
		response.Redirect(c, h.portal.PendingNoticePath)
		return
	}
	response.JSON(c, http.StatusCreated, result, nil, map[string]interface{}{
		"notice": h.portal.PendingNoticePath,
	})
}
