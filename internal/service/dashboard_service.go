package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/unilink-bg/unilink-api/internal/models"
	appErrors "github.com/unilink-bg/unilink-api/pkg/errors"
)

const (
	facultyNumberPlaceholder = "No faculty number assigned"
	serviceEmailPlaceholder  = "No service email assigned"
)

type dashboardUserReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// DashboardService builds the payloads behind the dashboard endpoints.
// The root dispatcher routes by role, but each role-specific view also
// re-checks the identity's role itself; the routing decision alone is
// not trusted.
type DashboardService struct {
	repo   dashboardUserReader
	logger *zap.Logger
}

// NewDashboardService constructs the service.
func NewDashboardService(repo dashboardUserReader, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, logger: logger}
}

// Resolve loads the authenticated identity for role dispatch.
func (s *DashboardService) Resolve(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "identity no longer exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load identity")
	}
	return user, nil
}

// StudentView returns the student dashboard, refusing identities of
// any other role.
func (s *DashboardService) StudentView(ctx context.Context, userID string) (*models.DashboardView, error) {
	user, err := s.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "student access only")
	}

	idInfo := facultyNumberPlaceholder
	if user.FacultyNumber != nil && *user.FacultyNumber != "" {
		idInfo = *user.FacultyNumber
	}

	return &models.DashboardView{
		Title:    "Student Dashboard",
		Role:     user.Role,
		FullName: user.FullName(),
		IDInfo:   idInfo,
	}, nil
}

// LecturerView returns the lecturer dashboard, refusing identities of
// any other role.
func (s *DashboardService) LecturerView(ctx context.Context, userID string) (*models.DashboardView, error) {
	user, err := s.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleLecturer {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "lecturer access only")
	}

	idInfo := serviceEmailPlaceholder
	if user.ServiceEmail != nil && *user.ServiceEmail != "" {
		idInfo = *user.ServiceEmail
	}

	return &models.DashboardView{
		Title:    "Lecturer Dashboard",
		Role:     user.Role,
		FullName: user.FullName(),
		IDInfo:   idInfo,
	}, nil
}

// GenericView is the fallback for identities that are neither students
// nor lecturers.
func (s *DashboardService) GenericView(user *models.User) *models.DashboardView {
	return &models.DashboardView{
		Title:    "Dashboard",
		Role:     user.Role,
		FullName: user.FullName(),
		IDInfo:   user.Username,
	}
}
