package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unilink-bg/unilink-api/internal/service"
	appErrors "github.com/unilink-bg/unilink-api/pkg/errors"
	"github.com/unilink-bg/unilink-api/pkg/response"
)

// JobPostingHandler exposes the admin job posting CRUD endpoints.
type JobPostingHandler struct {
	postings *service.JobPostingService
}

// NewJobPostingHandler constructs the handler.
func NewJobPostingHandler(postings *service.JobPostingService) *JobPostingHandler {
	return &JobPostingHandler{postings: postings}
}

// List returns postings; ?open=true restricts to open ones.
func (h *JobPostingHandler) List(c *gin.Context) {
	postings, err := h.postings.List(c.Request.Context(), c.Query("open") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, postings, nil)
}

// Get returns a posting by ID.
func (h *JobPostingHandler) Get(c *gin.Context) {
	posting, err := h.postings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, posting, nil)
}

// Create adds a posting.
func (h *JobPostingHandler) Create(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var req service.JobPostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	posting, err := h.postings.Create(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, posting)
}

// Update modifies a posting.
func (h *JobPostingHandler) Update(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var req service.JobPostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	posting, err := h.postings.Update(c.Request.Context(), c.Param("id"), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, posting, nil)
}

// Delete removes a posting along with its applications.
func (h *JobPostingHandler) Delete(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	if err := h.postings.Delete(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
