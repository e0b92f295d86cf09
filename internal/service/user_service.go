package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/unilink-bg/unilink-api/internal/models"
	appErrors "github.com/unilink-bg/unilink-api/pkg/errors"
)

type userRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	Update(ctx context.Context, user *models.User) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// UserUpdateRequest is the admin payload for editing an identity.
// Faculty numbers and service emails are assigned here once a
// candidate has been admitted or hired.
type UserUpdateRequest struct {
	FirstName     string  `json:"first_name" validate:"required,max=100"`
	LastName      string  `json:"last_name" validate:"required,max=100"`
	Email         string  `json:"email" validate:"omitempty,email,max=255"`
	FacultyNumber *string `json:"faculty_number" validate:"omitempty,max=20"`
	ServiceEmail  *string `json:"service_email" validate:"omitempty,email,max=255"`
}

// UserListResult pairs a page of identities with pagination metadata.
type UserListResult struct {
	Users      []models.User     `json:"users"`
	Pagination models.Pagination `json:"pagination"`
}

// UserService exposes the admin identity management operations.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// List returns identities matching the filter.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) (*UserListResult, error) {
	if filter.Role != nil && !filter.Role.Valid() {
		return nil, appErrors.Validation("unknown role filter", map[string]string{"role": "must be STUDENT, LECTURER or ADMIN"})
	}

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list identities")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	return &UserListResult{
		Users: users,
		Pagination: models.Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalCount: total,
		},
	}, nil
}

// Get returns a single identity.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "identity not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load identity")
	}
	return user, nil
}

// Update edits an identity's profile attributes. Role and approval are
// not editable here; approval has its own workflow.
func (s *UserService) Update(ctx context.Context, id string, req UserUpdateRequest, actorID string) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		fields := map[string]string{}
		collectValidatorErrors(err, fields)
		return nil, appErrors.Validation("invalid identity payload", fields)
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	old := *user
	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)
	user.Email = strings.TrimSpace(req.Email)
	user.FacultyNumber = normalizeOptional(req.FacultyNumber)
	user.ServiceEmail = normalizeOptional(req.ServiceEmail)

	if err := s.repo.Update(ctx, user); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update identity")
	}

	oldPayload, _ := json.Marshal(&old)
	newPayload, _ := json.Marshal(user)
	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actorID,
		Action:     models.AuditActionIdentityUpdate,
		Resource:   "users",
		ResourceID: &user.ID,
		OldValues:  oldPayload,
		NewValues:  newPayload,
	}); err != nil {
		s.logger.Warn("failed to record identity audit log", zap.Error(err))
	}

	return user, nil
}

// normalizeOptional trims an optional value, collapsing blanks to nil
// so unique indexes over the column ignore unset rows.
func normalizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
