package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/unilink-bg/unilink-api/internal/models"
	appErrors "github.com/unilink-bg/unilink-api/pkg/errors"
)

type mockApprovalRepo struct {
	users      map[string]*models.User
	approveErr map[string]error
	approved   map[string]string
	auditLogs  []*models.AuditLog
}

func newMockApprovalRepo(ids ...string) *mockApprovalRepo {
	repo := &mockApprovalRepo{
		users:      map[string]*models.User{},
		approveErr: map[string]error{},
		approved:   map[string]string{},
	}
	for _, id := range ids {
		repo.users[id] = &models.User{ID: id, Username: "user-" + id, Role: models.RoleStudent}
	}
	return repo
}

func (m *mockApprovalRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		copy := *user
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockApprovalRepo) Approve(ctx context.Context, id, passwordHash string) error {
	if err, ok := m.approveErr[id]; ok {
		return err
	}
	m.approved[id] = passwordHash
	return nil
}

func (m *mockApprovalRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func TestApproveIssuesCredentials(t *testing.T) {
	repo := newMockApprovalRepo("a", "b", "c")
	svc := NewApprovalService(repo, zap.NewNop(), ApprovalConfig{PasswordLength: 12, MaxBatchSize: 100})

	result, err := svc.Approve(context.Background(), []string{"a", "b", "c"}, "admin", models.LoginRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Processed)
	require.Len(t, result.Credentials, 3)

	for _, cred := range result.Credentials {
		assert.Len(t, cred.Password, 12)
		for _, r := range cred.Password {
			assert.Contains(t, passwordCharset, string(r))
		}
		hash, ok := repo.approved[cred.UserID]
		require.True(t, ok)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(cred.Password)),
			"stored hash must verify the reported plaintext")
	}
	assert.Len(t, repo.auditLogs, 3)
}

func TestApprovePartialFailureKeepsSuccesses(t *testing.T) {
	repo := newMockApprovalRepo("a", "b", "c")
	repo.approveErr["b"] = errors.New("write failed")
	svc := NewApprovalService(repo, zap.NewNop(), ApprovalConfig{PasswordLength: 12, MaxBatchSize: 100})

	result, err := svc.Approve(context.Background(), []string{"a", "b", "c"}, "admin", models.LoginRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Len(t, result.Credentials, 2)
	assert.Contains(t, repo.approved, "a")
	assert.Contains(t, repo.approved, "c")
	assert.NotContains(t, repo.approved, "b")
}

func TestApproveSkipsUnknownIdentities(t *testing.T) {
	repo := newMockApprovalRepo("a")
	svc := NewApprovalService(repo, zap.NewNop(), ApprovalConfig{PasswordLength: 12, MaxBatchSize: 100})

	result, err := svc.Approve(context.Background(), []string{"a", "ghost"}, "admin", models.LoginRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	require.Len(t, result.Credentials, 1)
	assert.Equal(t, "a", result.Credentials[0].UserID)
}

func TestApproveEmptySelectionRejected(t *testing.T) {
	repo := newMockApprovalRepo()
	svc := NewApprovalService(repo, zap.NewNop(), ApprovalConfig{PasswordLength: 12, MaxBatchSize: 100})

	_, err := svc.Approve(context.Background(), nil, "admin", models.LoginRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestApproveBatchSizeLimit(t *testing.T) {
	repo := newMockApprovalRepo("a", "b")
	svc := NewApprovalService(repo, zap.NewNop(), ApprovalConfig{PasswordLength: 12, MaxBatchSize: 1})

	_, err := svc.Approve(context.Background(), []string{"a", "b"}, "admin", models.LoginRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGeneratedPasswordsDiffer(t *testing.T) {
	repo := newMockApprovalRepo("a", "b", "c", "d")
	svc := NewApprovalService(repo, zap.NewNop(), ApprovalConfig{PasswordLength: 12, MaxBatchSize: 100})

	result, err := svc.Approve(context.Background(), []string{"a", "b", "c", "d"}, "admin", models.LoginRequest{})
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, cred := range result.Credentials {
		assert.False(t, seen[cred.Password], "passwords should not repeat within a batch")
		seen[cred.Password] = true
	}
}
