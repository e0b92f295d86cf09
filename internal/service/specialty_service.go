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

type specialtyRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Specialty, error)
	FindByID(ctx context.Context, id string) (*models.Specialty, error)
	Create(ctx context.Context, specialty *models.Specialty) error
	Update(ctx context.Context, specialty *models.Specialty) error
	Delete(ctx context.Context, id string) error
}

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// SpecialtyRequest is the admin payload for creating or updating a
// specialty.
type SpecialtyRequest struct {
	Name        string `json:"name" validate:"required,max=150"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

// SpecialtyService manages the specialty reference data on behalf of
// administrators.
type SpecialtyService struct {
	repo      specialtyRepository
	audits    auditWriter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSpecialtyService constructs the service.
func NewSpecialtyService(repo specialtyRepository, audits auditWriter, validate *validator.Validate, logger *zap.Logger) *SpecialtyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SpecialtyService{repo: repo, audits: audits, validator: validate, logger: logger}
}

// List returns specialties; activeOnly restricts to currently open ones.
func (s *SpecialtyService) List(ctx context.Context, activeOnly bool) ([]models.Specialty, error) {
	specialties, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list specialties")
	}
	return specialties, nil
}

// Get returns a specialty by ID.
func (s *SpecialtyService) Get(ctx context.Context, id string) (*models.Specialty, error) {
	specialty, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "specialty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load specialty")
	}
	return specialty, nil
}

// Create adds a new specialty.
func (s *SpecialtyService) Create(ctx context.Context, req SpecialtyRequest, actorID string) (*models.Specialty, error) {
	if err := s.validator.Struct(req); err != nil {
		fields := map[string]string{}
		collectValidatorErrors(err, fields)
		return nil, appErrors.Validation("invalid specialty payload", fields)
	}

	specialty := &models.Specialty{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		specialty.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, specialty); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create specialty")
	}

	s.auditChange(ctx, actorID, specialty.ID, nil, specialty)
	return specialty, nil
}

// Update modifies a specialty.
func (s *SpecialtyService) Update(ctx context.Context, id string, req SpecialtyRequest, actorID string) (*models.Specialty, error) {
	if err := s.validator.Struct(req); err != nil {
		fields := map[string]string{}
		collectValidatorErrors(err, fields)
		return nil, appErrors.Validation("invalid specialty payload", fields)
	}

	specialty, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	old := *specialty
	specialty.Name = req.Name
	specialty.Description = req.Description
	if req.IsActive != nil {
		specialty.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, specialty); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update specialty")
	}

	s.auditChange(ctx, actorID, specialty.ID, &old, specialty)
	return specialty, nil
}

// Delete removes a specialty. Student applications that referenced it
// keep their rows with the choice nulled by the store.
func (s *SpecialtyService) Delete(ctx context.Context, id string, actorID string) error {
	specialty, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "specialty not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete specialty")
	}

	s.auditChange(ctx, actorID, id, specialty, nil)
	return nil
}

func (s *SpecialtyService) auditChange(ctx context.Context, actorID, specialtyID string, old, new *models.Specialty) {
	var oldPayload, newPayload []byte
	if old != nil {
		oldPayload, _ = json.Marshal(old)
	}
	if new != nil {
		newPayload, _ = json.Marshal(new)
	}
	if err := s.audits.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actorID,
		Action:     models.AuditActionSpecialtyChange,
		Resource:   "specialties",
		ResourceID: &specialtyID,
		OldValues:  oldPayload,
		NewValues:  newPayload,
	}); err != nil {
		s.logger.Warn("failed to record specialty audit log", zap.Error(err))
	}
}
