package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unilink-bg/unilink-api/internal/models"
	appErrors "github.com/unilink-bg/unilink-api/pkg/errors"
)

type mockRegistrationRepo struct {
	createErr    error
	createdUsers []*models.User
	studentApps  []*models.StudentApplication
	lecturerApps []*models.LecturerApplication
}

func (m *mockRegistrationRepo) CreateStudentRegistration(ctx context.Context, user *models.User, app *models.StudentApplication) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "new-user"
	app.ID = "new-app"
	m.createdUsers = append(m.createdUsers, user)
	m.studentApps = append(m.studentApps, app)
	return nil
}

func (m *mockRegistrationRepo) CreateLecturerRegistration(ctx context.Context, user *models.User, app *models.LecturerApplication) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "new-user"
	app.ID = "new-app"
	m.createdUsers = append(m.createdUsers, user)
	m.lecturerApps = append(m.lecturerApps, app)
	return nil
}

type mockRegUserReader struct {
	takenUsernames map[string]bool
	auditLogs      []*models.AuditLog
}

func (m *mockRegUserReader) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.takenUsernames[username] {
		return &models.User{ID: "existing", Username: username}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockRegUserReader) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

type mockSpecialtyReader struct {
	specialties map[string]*models.Specialty
}

func (m *mockSpecialtyReader) FindByID(ctx context.Context, id string) (*models.Specialty, error) {
	if s, ok := m.specialties[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSpecialtyReader) List(ctx context.Context, activeOnly bool) ([]models.Specialty, error) {
	var out []models.Specialty
	for _, s := range m.specialties {
		if !activeOnly || s.IsActive {
			out = append(out, *s)
		}
	}
	return out, nil
}

type mockJobPostingReader struct {
	postings map[string]*models.JobPosting
}

func (m *mockJobPostingReader) FindByID(ctx context.Context, id string) (*models.JobPosting, error) {
	if p, ok := m.postings[id]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockJobPostingReader) List(ctx context.Context, openOnly bool) ([]models.JobPosting, error) {
	var out []models.JobPosting
	for _, p := range m.postings {
		if !openOnly || p.IsOpen {
			out = append(out, *p)
		}
	}
	return out, nil
}

func registrationFixture() (*RegistrationService, *mockRegistrationRepo, *mockRegUserReader) {
	repo := &mockRegistrationRepo{}
	users := &mockRegUserReader{takenUsernames: map[string]bool{}}
	specialties := &mockSpecialtyReader{specialties: map[string]*models.Specialty{
		"sp-a": {ID: "sp-a", Name: "Informatics", IsActive: true},
		"sp-b": {ID: "sp-b", Name: "Mathematics", IsActive: true},
		"sp-c": {ID: "sp-c", Name: "Physics", IsActive: true},
		"sp-x": {ID: "sp-x", Name: "Archived", IsActive: false},
	}}
	postings := &mockJobPostingReader{postings: map[string]*models.JobPosting{
		"jp-1": {ID: "jp-1", Title: "Assistant Professor", IsOpen: true},
		"jp-2": {ID: "jp-2", Title: "Closed Role", IsOpen: false},
	}}
	svc := NewRegistrationService(repo, users, specialties, postings, validator.New(), zap.NewNop())
	return svc, repo, users
}

func validStudentRequest() StudentRegistrationRequest {
	return StudentRegistrationRequest{
		Identity: IdentityForm{FirstName: "Georgi", LastName: "Dimitrov", Username: "gdimitrov"},
		Application: StudentApplicationForm{
			EGN:           "0145123456",
			DateOfBirth:   "2001-04-15",
			Phone:         "+359888123456",
			Address:       "Sofia",
			HighSchool:    "91 NEG",
			GPA:           5.5,
			FirstChoiceID: "sp-a",
			Consent:       true,
		},
	}
}

func TestRegisterStudentSuccess(t *testing.T) {
	svc, repo, users := registrationFixture()

	req := validStudentRequest()
	req.Application.SecondChoiceID = "sp-b"
	req.Application.ThirdChoiceID = "sp-c"

	result, err := svc.RegisterStudent(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, string(models.StudentStatusSubmitted), result.Status)

	require.Len(t, repo.createdUsers, 1)
	user := repo.createdUsers[0]
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.False(t, user.IsApproved)
	assert.True(t, strings.HasPrefix(user.PasswordHash, "!"), "placeholder must never be a bcrypt hash")
	assert.Len(t, users.auditLogs, 1)
}

func TestRegisterStudentDuplicateUsernameNothingPersisted(t *testing.T) {
	svc, repo, users := registrationFixture()
	users.takenUsernames["gdimitrov"] = true

	_, err := svc.RegisterStudent(context.Background(), validStudentRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Fields, "username")
	assert.Empty(t, repo.createdUsers)
}

func TestRegisterStudentMalformedEGN(t *testing.T) {
	svc, repo, _ := registrationFixture()

	for _, egn := range []string{"", "123", "12345678901", "12345abcde"} {
		req := validStudentRequest()
		req.Application.EGN = egn
		_, err := svc.RegisterStudent(context.Background(), req)
		require.Error(t, err, "egn %q must be rejected", egn)
		assert.Contains(t, appErrors.FromError(err).Fields, "egn")
	}
	assert.Empty(t, repo.createdUsers)
}

func TestRegisterStudentChoicesMustBeDistinct(t *testing.T) {
	svc, repo, _ := registrationFixture()

	req := validStudentRequest()
	req.Application.FirstChoiceID = "sp-a"
	req.Application.SecondChoiceID = "sp-a"
	req.Application.ThirdChoiceID = "sp-b"

	_, err := svc.RegisterStudent(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "specialties")
	assert.Empty(t, repo.createdUsers)
}

func TestRegisterStudentInactiveSpecialtyRejected(t *testing.T) {
	svc, repo, _ := registrationFixture()

	req := validStudentRequest()
	req.Application.FirstChoiceID = "sp-x"

	_, err := svc.RegisterStudent(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "specialties")
	assert.Empty(t, repo.createdUsers)
}

func TestRegisterStudentConsentRequired(t *testing.T) {
	svc, repo, _ := registrationFixture()

	req := validStudentRequest()
	req.Application.Consent = false

	_, err := svc.RegisterStudent(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "consent")
	assert.Empty(t, repo.createdUsers)
}

func validLecturerRequest() LecturerRegistrationRequest {
	return LecturerRegistrationRequest{
		Identity: IdentityForm{FirstName: "Maria", LastName: "Ivanova", Username: "mivanova"},
		Application: LecturerApplicationForm{
			Title:            "Dr",
			Department:       "Computer Science",
			EducationPath:    "PhD in CS",
			JobPostingID:     "jp-1",
			StatementOfTruth: true,
		},
	}
}

func TestRegisterLecturerDerivesServiceEmail(t *testing.T) {
	svc, repo, _ := registrationFixture()

	req := validLecturerRequest()
	req.Identity.FirstName = "Anna Maria"
	req.Identity.LastName = "Van Den Berg"

	_, err := svc.RegisterLecturer(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, repo.createdUsers, 1)
	require.NotNil(t, repo.createdUsers[0].ServiceEmail)
	assert.Equal(t, "annamaria.vandenberg@unilink.bg", *repo.createdUsers[0].ServiceEmail)
}

func TestRegisterLecturerClosedPostingRejected(t *testing.T) {
	svc, repo, _ := registrationFixture()

	req := validLecturerRequest()
	req.Application.JobPostingID = "jp-2"

	_, err := svc.RegisterLecturer(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "job_posting_id")
	assert.Empty(t, repo.createdUsers)
}

func TestRegisterLecturerStatementRequired(t *testing.T) {
	svc, repo, _ := registrationFixture()

	req := validLecturerRequest()
	req.Application.StatementOfTruth = false

	_, err := svc.RegisterLecturer(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "statement_of_truth")
	assert.Empty(t, repo.createdUsers)
}

func TestRegistrationOptionsOnlyLiveChoices(t *testing.T) {
	svc, _, _ := registrationFixture()

	options, err := svc.Options(context.Background())
	require.NoError(t, err)
	assert.Len(t, options.Specialties, 3)
	for _, s := range options.Specialties {
		assert.True(t, s.IsActive)
	}
	assert.Len(t, options.JobPostings, 1)
	assert.True(t, options.JobPostings[0].IsOpen)
}
