package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/unilink-bg/unilink-api/internal/middleware"
	"github.com/unilink-bg/unilink-api/internal/models"
	appErrors "github.com/unilink-bg/unilink-api/pkg/errors"
	"github.com/unilink-bg/unilink-api/pkg/response"
)

// currentClaims pulls the validated claims from the context, writing
// the error response itself when they are missing.
func currentClaims(c *gin.Context) (*models.JWTClaims, bool) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required"))
		return nil, false
	}
	return claims, true
}

// clientMeta captures the request origin for audit trails.
func clientMeta(c *gin.Context) models.LoginRequest {
	return models.LoginRequest{
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
}

// wantsHTML reports whether the client negotiated a browser-style
// redirect flow instead of a JSON payload.
func wantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}
