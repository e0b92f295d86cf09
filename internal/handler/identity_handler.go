package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/unilink-bg/unilink-api/internal/models"
	"github.com/unilink-bg/unilink-api/internal/service"
	appErrors "github.com/unilink-bg/unilink-api/pkg/errors"
	"github.com/unilink-bg/unilink-api/pkg/response"
)

// IdentityHandler exposes the admin identity endpoints, including the
// bulk approval action.
type IdentityHandler struct {
	users    *service.UserService
	approval *service.ApprovalService
}

// NewIdentityHandler constructs the handler.
func NewIdentityHandler(users *service.UserService, approval *service.ApprovalService) *IdentityHandler {
	return &IdentityHandler{users: users, approval: approval}
}

// List returns identities filtered by role, approval and search term.
func (h *IdentityHandler) List(c *gin.Context) {
	filter := models.UserFilter{
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		Page:      queryInt(c, "page", 1),
		PageSize:  queryInt(c, "page_size", 20),
	}
	if role := c.Query("role"); role != "" {
		r := models.Role(role)
		filter.Role = &r
	}
	if approved := c.Query("approved"); approved != "" {
		value := approved == "true"
		filter.Approved = &value
	}

	result, err := h.users.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result.Users, &result.Pagination)
}

// Get returns a single identity.
func (h *IdentityHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// Update edits an identity's profile, including faculty number and
// service email assignment.
func (h *IdentityHandler) Update(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var req service.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("id"), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, user, nil)
}

type approveRequest struct {
	IDs []string `json:"ids"`
}

// Approve runs the bulk approval workflow over the selected
// identities. The issued plaintext passwords appear only in this
// response.
func (h *IdentityHandler) Approve(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var req approveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	result, err := h.approval.Approve(c.Request.Context(), req.IDs, claims.UserID, clientMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
