package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unilink-bg/unilink-api/internal/models"
	appErrors "github.com/unilink-bg/unilink-api/pkg/errors"
)

type mockUserRepo struct {
	users     map[string]*models.User
	listUsers []models.User
	listCount int
	auditLogs []*models.AuditLog
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		copy := *user
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	return m.listUsers, m.listCount, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *mockUserRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func TestUserUpdateAssignsFacultyNumber(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Username: "gdimitrov", Role: models.RoleStudent, FirstName: "Georgi", LastName: "Dimitrov"},
	}}
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	fn := "FN20250042"
	user, err := svc.Update(context.Background(), "u1", UserUpdateRequest{
		FirstName:     "Georgi",
		LastName:      "Dimitrov",
		FacultyNumber: &fn,
	}, "admin")
	require.NoError(t, err)
	require.NotNil(t, user.FacultyNumber)
	assert.Equal(t, "FN20250042", *user.FacultyNumber)
	assert.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionIdentityUpdate, repo.auditLogs[0].Action)
}

func TestUserUpdateBlankIdentifiersBecomeNil(t *testing.T) {
	fn := "FN001"
	repo := &mockUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Role: models.RoleStudent, FirstName: "Georgi", LastName: "Dimitrov", FacultyNumber: &fn},
	}}
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	blank := "   "
	user, err := svc.Update(context.Background(), "u1", UserUpdateRequest{
		FirstName:     "Georgi",
		LastName:      "Dimitrov",
		FacultyNumber: &blank,
	}, "admin")
	require.NoError(t, err)
	assert.Nil(t, user.FacultyNumber)
}

func TestUserUpdateUnknownIdentity(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.User{}}
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), "ghost", UserUpdateRequest{FirstName: "A", LastName: "B"}, "admin")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUserListInvalidRoleFilter(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	bogus := models.Role("WIZARD")
	_, err := svc.List(context.Background(), models.UserFilter{Role: &bogus})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUserListPaginationMetadata(t *testing.T) {
	repo := &mockUserRepo{listUsers: []models.User{{ID: "1"}, {ID: "2"}}, listCount: 42}
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	result, err := svc.List(context.Background(), models.UserFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, result.Users, 2)
	assert.Equal(t, 2, result.Pagination.Page)
	assert.Equal(t, 42, result.Pagination.TotalCount)
}
