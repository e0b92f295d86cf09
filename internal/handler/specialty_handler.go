package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unilink-bg/unilink-api/internal/service"
	appErrors "github.com/unilink-bg/unilink-api/pkg/errors"
	"github.com/unilink-bg/unilink-api/pkg/response"
)

// SpecialtyHandler exposes the admin specialty CRUD endpoints.
type SpecialtyHandler struct {
	specialties *service.SpecialtyService
}

// NewSpecialtyHandler constructs the handler.
func NewSpecialtyHandler(specialties *service.SpecialtyService) *SpecialtyHandler {
	return &SpecialtyHandler{specialties: specialties}
}

// List returns specialties; ?active=true restricts to open ones.
func (h *SpecialtyHandler) List(c *gin.Context) {
	specialties, err := h.specialties.List(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, specialties, nil)
}

// Get returns a specialty by ID.
func (h *SpecialtyHandler) Get(c *gin.Context) {
	specialty, err := h.specialties.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, specialty, nil)
}

// Create adds a specialty.
func (h *SpecialtyHandler) Create(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var req service.SpecialtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	specialty, err := h.specialties.Create(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, specialty)
}

// Update modifies a specialty.
func (h *SpecialtyHandler) Update(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var req service.SpecialtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	specialty, err := h.specialties.Update(c.Request.Context(), c.Param("id"), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, specialty, nil)
}

// Delete removes a specialty.
func (h *SpecialtyHandler) Delete(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	if err := h.specialties.Delete(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
