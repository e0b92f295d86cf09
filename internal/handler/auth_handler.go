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

// AuthHandler exposes the authentication endpoints.
type AuthHandler struct {
	auth   *service.AuthService
	users  *service.UserService
	portal config.PortalConfig
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(auth *service.AuthService, users *service.UserService, portal config.PortalConfig) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, portal: portal}
}

// Login authenticates with a service email or faculty number plus
// password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	result, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}

// Refresh exchanges a refresh token for a new token pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	result, err := h.auth.RefreshToken(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout revokes the session. Browser flows are sent back to the
// login page; API clients get a notice payload.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var req logoutRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		response.Error(c, appErrors.Validation("invalid request body", map[string]string{"refresh_token": "this field is required"}))
		return
	}

	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken, claims, clientMeta(c)); err != nil {
		response.Error(c, err)
		return
	}

	if wantsHTML(c) {
		response.Redirect(c, h.portal.LoginPath)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "logged out", "login_path": h.portal.LoginPath}, nil)
}

// Me returns the authenticated identity.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, user, nil)
}
