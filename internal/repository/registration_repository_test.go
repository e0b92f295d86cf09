package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unilink-bg/unilink-api/internal/models"
)

func TestCreateStudentRegistrationCommitsBothRows(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO student_applications").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	user := &models.User{Username: "gdimitrov", PasswordHash: "!placeholder", Role: models.RoleStudent}
	app := &models.StudentApplication{EGN: "0145123456", DateOfBirth: time.Now(), Phone: "x", Address: "y", HighSchool: "z", GPA: 5.5}

	err := repo.CreateStudentRegistration(context.Background(), user, app)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, user.ID, app.UserID)
	assert.Equal(t, models.StudentStatusSubmitted, app.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStudentRegistrationRollsBackOnApplicationFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO student_applications").WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	user := &models.User{Username: "gdimitrov", PasswordHash: "!placeholder", Role: models.RoleStudent}
	app := &models.StudentApplication{EGN: "0145123456"}

	err := repo.CreateStudentRegistration(context.Background(), user, app)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet(), "identity insert must be rolled back")
}

func TestCreateStudentRegistrationRollsBackOnIdentityFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnError(errors.New("duplicate"))
	mock.ExpectRollback()

	user := &models.User{Username: "taken", PasswordHash: "!placeholder", Role: models.RoleStudent}
	app := &models.StudentApplication{EGN: "0145123456"}

	err := repo.CreateStudentRegistration(context.Background(), user, app)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateLecturerRegistrationCommitsBothRows(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO lecturer_applications").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	email := "maria.ivanova@unilink.bg"
	user := &models.User{Username: "mivanova", PasswordHash: "!placeholder", Role: models.RoleLecturer, ServiceEmail: &email}
	app := &models.LecturerApplication{Title: "Dr", Department: "CS", EducationPath: "PhD", JobPostingID: "jp-1", StatementOfTruth: true}

	err := repo.CreateLecturerRegistration(context.Background(), user, app)
	require.NoError(t, err)
	assert.Equal(t, models.LecturerStatusSubmitted, app.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
