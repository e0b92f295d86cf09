package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unilink-bg/unilink-api/internal/models"
	appErrors "github.com/unilink-bg/unilink-api/pkg/errors"
)

type mockDashboardRepo struct {
	users map[string]*models.User
}

func (m *mockDashboardRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		copy := *user
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func dashboardFixture() (*DashboardService, *mockDashboardRepo) {
	facultyNumber := "FN20250042"
	serviceEmail := "maria.ivanova@unilink.bg"
	repo := &mockDashboardRepo{users: map[string]*models.User{
		"student": {ID: "student", Role: models.RoleStudent, FirstName: "Georgi", LastName: "Dimitrov", FacultyNumber: &facultyNumber},
		"fresh":   {ID: "fresh", Role: models.RoleStudent, FirstName: "New", LastName: "Student"},
		"lect":    {ID: "lect", Role: models.RoleLecturer, FirstName: "Maria", LastName: "Ivanova", ServiceEmail: &serviceEmail},
		"hire":    {ID: "hire", Role: models.RoleLecturer, FirstName: "Just", LastName: "Hired"},
	}}
	return NewDashboardService(repo, zap.NewNop()), repo
}

func TestStudentViewShowsFacultyNumber(t *testing.T) {
	svc, _ := dashboardFixture()

	view, err := svc.StudentView(context.Background(), "student")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, view.Role)
	assert.Equal(t, "Georgi Dimitrov", view.FullName)
	assert.Equal(t, "FN20250042", view.IDInfo)
}

func TestStudentViewPlaceholderWhenUnassigned(t *testing.T) {
	svc, _ := dashboardFixture()

	view, err := svc.StudentView(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Equal(t, facultyNumberPlaceholder, view.IDInfo)
}

func TestLecturerViewShowsServiceEmail(t *testing.T) {
	svc, _ := dashboardFixture()

	view, err := svc.LecturerView(context.Background(), "lect")
	require.NoError(t, err)
	assert.Equal(t, "maria.ivanova@unilink.bg", view.IDInfo)
}

func TestLecturerViewPlaceholderWhenUnassigned(t *testing.T) {
	svc, _ := dashboardFixture()

	view, err := svc.LecturerView(context.Background(), "hire")
	require.NoError(t, err)
	assert.Equal(t, serviceEmailPlaceholder, view.IDInfo)
}

func TestRoleRecheckRefusesForeignDashboards(t *testing.T) {
	svc, _ := dashboardFixture()

	_, err := svc.StudentView(context.Background(), "lect")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, err = svc.LecturerView(context.Background(), "student")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestResolveUnknownIdentity(t *testing.T) {
	svc, _ := dashboardFixture()

	_, err := svc.Resolve(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
