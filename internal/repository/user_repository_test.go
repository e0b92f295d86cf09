package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unilink-bg/unilink-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func userRows(ids ...string) *sqlmock.Rows {
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "is_approved", "faculty_number", "service_email", "first_name", "last_name", "email", "last_login", "created_at", "updated_at"})
	for _, id := range ids {
		rows.AddRow(id, "user-"+id, "hash", string(models.RoleStudent), true, nil, nil, "First", "Last", "", nil, now, now)
	}
	return rows
}

func TestFindByIdentifierSingleMatch(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, password_hash, role, is_approved, faculty_number, service_email, first_name, last_name, email, last_login, created_at, updated_at FROM users WHERE LOWER(service_email) = LOWER($1) OR faculty_number = $1 LIMIT 2")).
		WithArgs("FN001").
		WillReturnRows(userRows("1"))

	user, err := repo.FindByIdentifier(context.Background(), "FN001")
	require.NoError(t, err)
	assert.Equal(t, "1", user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIdentifierNoMatch(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT .+ FROM users WHERE LOWER").
		WithArgs("nobody").
		WillReturnRows(userRows())

	_, err := repo.FindByIdentifier(context.Background(), "nobody")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestFindByIdentifierAmbiguousMatchTreatedAsMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT .+ FROM users WHERE LOWER").
		WithArgs("shared").
		WillReturnRows(userRows("1", "2"))

	_, err := repo.FindByIdentifier(context.Background(), "shared")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestApproveSetsFlagAndHash(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET is_approved = TRUE, password_hash = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("u1", "new-hash", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Approve(context.Background(), "u1", "new-hash")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveUnknownIdentity(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE users SET is_approved").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Approve(context.Background(), "ghost", "new-hash")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListUsersWithFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT .+ FROM users WHERE 1=1 AND role = .+ AND is_approved = .+ ORDER BY created_at DESC LIMIT 20 OFFSET 0").
		WillReturnRows(userRows("1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	role := models.RoleStudent
	approved := false
	users, total, err := repo.List(context.Background(), models.UserFilter{Role: &role, Approved: &approved})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAuditLogDefaults(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO audit_logs").WillReturnResult(sqlmock.NewResult(1, 1))

	log := &models.AuditLog{Action: models.AuditActionApprove, Resource: "users"}
	err := repo.CreateAuditLog(context.Background(), log)
	require.NoError(t, err)
	assert.NotEmpty(t, log.ID)
	assert.False(t, log.CreatedAt.IsZero())
}
