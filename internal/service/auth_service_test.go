package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/unilink-bg/unilink-api/internal/models"
	appErrors "github.com/unilink-bg/unilink-api/pkg/errors"
)

type mockAuthRepo struct {
	users         map[string]*models.User
	byIdentifier  map[string]*models.User
	refreshTokens map[string]*models.RefreshToken
	revokedTokens []string
	auditLogs     []*models.AuditLog
}

func newMockAuthRepo() *mockAuthRepo {
	return &mockAuthRepo{
		users:         map[string]*models.User{},
		byIdentifier:  map[string]*models.User{},
		refreshTokens: map[string]*models.RefreshToken{},
	}
}

func (m *mockAuthRepo) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	if user, ok := m.byIdentifier[identifier]; ok {
		copy := *user
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		copy := *user
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	return nil
}

func (m *mockAuthRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	return nil
}

func (m *mockAuthRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	copy := *token
	m.refreshTokens[token.Token] = &copy
	return nil
}

func (m *mockAuthRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if rt, ok := m.refreshTokens[token]; ok {
		copy := *rt
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	m.revokedTokens = append(m.revokedTokens, id)
	for _, rt := range m.refreshTokens {
		if rt.ID == id {
			rt.Revoked = true
		}
	}
	return nil
}

func (m *mockAuthRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

type mockSessionStore struct {
	revoked map[string]bool
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{revoked: map[string]bool{}}
}

func (m *mockSessionStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	m.revoked[tokenID] = true
	return nil
}

func (m *mockSessionStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return m.revoked[tokenID], nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "unilink-api",
	}
}

func approvedUser(t *testing.T, identifier, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	email := identifier
	return &models.User{
		ID:           "u1",
		Username:     "ivan",
		PasswordHash: string(hash),
		Role:         models.RoleLecturer,
		IsApproved:   true,
		ServiceEmail: &email,
		FirstName:    "Ivan",
		LastName:     "Petrov",
	}
}

func TestLoginApprovedIdentity(t *testing.T) {
	repo := newMockAuthRepo()
	user := approvedUser(t, "ivan.petrov@unilink.bg", "correct-horse")
	repo.users[user.ID] = user
	repo.byIdentifier["ivan.petrov@unilink.bg"] = user

	svc := NewAuthService(repo, newMockSessionStore(), validator.New(), zap.NewNop(), testAuthConfig())

	result, err := svc.Login(context.Background(), models.LoginRequest{Identifier: "ivan.petrov@unilink.bg", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "u1", result.User.ID)
	assert.Len(t, repo.refreshTokens, 1)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	repo := newMockAuthRepo()

	known := approvedUser(t, "ivan.petrov@unilink.bg", "correct-horse")
	repo.users[known.ID] = known
	repo.byIdentifier["ivan.petrov@unilink.bg"] = known

	unapproved := approvedUser(t, "maria.ivanova@unilink.bg", "her-password")
	unapproved.ID = "u2"
	unapproved.IsApproved = false
	repo.users[unapproved.ID] = unapproved
	repo.byIdentifier["maria.ivanova@unilink.bg"] = unapproved

	svc := NewAuthService(repo, newMockSessionStore(), validator.New(), zap.NewNop(), testAuthConfig())

	cases := []struct {
		name       string
		identifier string
		password   string
	}{
		{"unknown identifier", "nobody@unilink.bg", "whatever"},
		{"wrong password", "ivan.petrov@unilink.bg", "wrong"},
		{"unapproved with correct password", "maria.ivanova@unilink.bg", "her-password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), models.LoginRequest{Identifier: tc.identifier, Password: tc.password})
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
			assert.Equal(t, appErrors.ErrInvalidCredentials.Message, appErr.Message)
		})
	}

	assert.Empty(t, repo.refreshTokens, "failed logins must not create sessions")
	assert.Empty(t, repo.auditLogs, "failed logins must not leave audit entries")
}

func TestLoginUnusablePlaceholderNeverMatches(t *testing.T) {
	repo := newMockAuthRepo()
	user := approvedUser(t, "pending@unilink.bg", "ignored")
	user.PasswordHash = unusablePassword()
	user.IsApproved = false
	repo.byIdentifier["pending@unilink.bg"] = user

	svc := NewAuthService(repo, newMockSessionStore(), validator.New(), zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Identifier: "pending@unilink.bg", Password: user.PasswordHash})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestRefreshRejectsUnapproved(t *testing.T) {
	repo := newMockAuthRepo()
	user := approvedUser(t, "ivan.petrov@unilink.bg", "correct-horse")
	user.IsApproved = false
	repo.users[user.ID] = user
	repo.refreshTokens["stale"] = &models.RefreshToken{
		ID:        "rt1",
		UserID:    user.ID,
		Token:     "stale",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	svc := NewAuthService(repo, newMockSessionStore(), validator.New(), zap.NewNop(), testAuthConfig())

	_, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "stale"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestLogoutRevokesSession(t *testing.T) {
	repo := newMockAuthRepo()
	sessions := newMockSessionStore()
	user := approvedUser(t, "ivan.petrov@unilink.bg", "correct-horse")
	repo.users[user.ID] = user
	repo.byIdentifier["ivan.petrov@unilink.bg"] = user

	svc := NewAuthService(repo, sessions, validator.New(), zap.NewNop(), testAuthConfig())

	result, err := svc.Login(context.Background(), models.LoginRequest{Identifier: "ivan.petrov@unilink.bg", Password: "correct-horse"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), result.AccessToken)
	require.NoError(t, err)

	err = svc.Logout(context.Background(), result.RefreshToken, claims, models.LoginRequest{})
	require.NoError(t, err)
	assert.True(t, sessions.revoked[claims.ID])

	_, err = svc.ValidateToken(context.Background(), result.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestLogoutRejectsForeignToken(t *testing.T) {
	repo := newMockAuthRepo()
	repo.refreshTokens["other"] = &models.RefreshToken{ID: "rt9", UserID: "someone-else", Token: "other", ExpiresAt: time.Now().Add(time.Hour)}

	svc := NewAuthService(repo, newMockSessionStore(), validator.New(), zap.NewNop(), testAuthConfig())

	claims := &models.JWTClaims{UserID: "u1"}
	err := svc.Logout(context.Background(), "other", claims, models.LoginRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.revokedTokens)
}
