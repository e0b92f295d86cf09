package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/unilink-bg/unilink-api/internal/models"
	appErrors "github.com/unilink-bg/unilink-api/pkg/errors"
)

type jobPostingRepository interface {
	List(ctx context.Context, openOnly bool) ([]models.JobPosting, error)
	FindByID(ctx context.Context, id string) (*models.JobPosting, error)
	Create(ctx context.Context, posting *models.JobPosting) error
	Update(ctx context.Context, posting *models.JobPosting) error
	Delete(ctx context.Context, id string) error
}

// JobPostingRequest is the admin payload for creating or updating a
// posting.
type JobPostingRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	IsOpen      *bool  `json:"is_open"`
}

// JobPostingService manages the job posting reference data.
type JobPostingService struct {
	repo      jobPostingRepository
	audits    auditWriter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewJobPostingService constructs the service.
func NewJobPostingService(repo jobPostingRepository, audits auditWriter, validate *validator.Validate, logger *zap.Logger) *JobPostingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &JobPostingService{repo: repo, audits: audits, validator: validate, logger: logger}
}

// List returns postings; openOnly restricts to ones accepting
// applications.
func (s *JobPostingService) List(ctx context.Context, openOnly bool) ([]models.JobPosting, error) {
	postings, err := s.repo.List(ctx, openOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list job postings")
	}
	return postings, nil
}

// Get returns a posting by ID.
func (s *JobPostingService) Get(ctx context.Context, id string) (*models.JobPosting, error) {
	posting, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "job posting not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load job posting")
	}
	return posting, nil
}

// Create adds a new posting.
func (s *JobPostingService) Create(ctx context.Context, req JobPostingRequest, actorID string) (*models.JobPosting, error) {
	if err := s.validator.Struct(req); err != nil {
		fields := map[string]string{}
		collectValidatorErrors(err, fields)
		return nil, appErrors.Validation("invalid job posting payload", fields)
	}

	posting := &models.JobPosting{
		Title:       req.Title,
		Description: req.Description,
		IsOpen:      true,
	}
	if req.IsOpen != nil {
		posting.IsOpen = *req.IsOpen
	}

	if err := s.repo.Create(ctx, posting); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create job posting")
	}

	s.auditChange(ctx, actorID, posting.ID, nil, posting)
	return posting, nil
}

// Update modifies a posting.
func (s *JobPostingService) Update(ctx context.Context, id string, req JobPostingRequest, actorID string) (*models.JobPosting, error) {
	if err := s.validator.Struct(req); err != nil {
		fields := map[string]string{}
		collectValidatorErrors(err, fields)
		return nil, appErrors.Validation("invalid job posting payload", fields)
	}

	posting, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	old := *posting
	posting.Title = req.Title
	posting.Description = req.Description
	if req.IsOpen != nil {
		posting.IsOpen = *req.IsOpen
	}

	if err := s.repo.Update(ctx, posting); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update job posting")
	}

	s.auditChange(ctx, actorID, posting.ID, &old, posting)
	return posting, nil
}

// Delete removes a posting; the store cascades into any lecturer
// applications that referenced it.
func (s *JobPostingService) Delete(ctx context.Context, id string, actorID string) error {
	posting, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "job posting not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete job posting")
	}

	s.auditChange(ctx, actorID, id, posting, nil)
	return nil
}

func (s *JobPostingService) auditChange(ctx context.Context, actorID, postingID string, old, new *models.JobPosting) {
	var oldPayload, newPayload []byte
	if old != nil {
		oldPayload, _ = json.Marshal(old)
	}
	if new != nil {
		newPayload, _ = json.Marshal(new)
	}
	if err := s.audits.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actorID,
		Action:     models.AuditActionJobPostingChange,
		Resource:   "job_postings",
		ResourceID: &postingID,
		OldValues:  oldPayload,
		NewValues:  newPayload,
	}); err != nil {
		s.logger.Warn("failed to record job posting audit log", zap.Error(err))
	}
}
