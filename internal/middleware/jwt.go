package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/unilink-bg/unilink-api/internal/models"
	appErrors "github.com/unilink-bg/unilink-api/pkg/errors"
	"github.com/unilink-bg/unilink-api/pkg/response"
)

// ContextUserKey is the gin context key holding the validated claims.
const ContextUserKey = "auth_user"

type tokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*models.JWTClaims, error)
}

// JWT validates the bearer token and stores the claims in the context.
func JWT(auth tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

// JWTOrRedirect behaves like JWT but answers unauthenticated browser
// traffic with a 302 to the configured login path instead of a JSON
// error.
func JWTOrRedirect(auth tokenValidator, loginPath string) gin.HandlerFunc {
	validate := JWT(auth)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" && strings.Contains(c.GetHeader("Accept"), "text/html") {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		validate(c)
	}
}

// ClaimsFromContext extracts the validated claims set by JWT.
func ClaimsFromContext(c *gin.Context) (*models.JWTClaims, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	return claims, ok
}
