package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/unilink-bg/unilink-api/internal/models"
	appErrors "github.com/unilink-bg/unilink-api/pkg/errors"
)

const serviceEmailDomain = "unilink.bg"

type registrationRepository interface {
	CreateStudentRegistration(ctx context.Context, user *models.User, app *models.StudentApplication) error
	CreateLecturerRegistration(ctx context.Context, user *models.User, app *models.LecturerApplication) error
}

type registrationUserReader interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type specialtyReader interface {
	FindByID(ctx context.Context, id string) (*models.Specialty, error)
	List(ctx context.Context, activeOnly bool) ([]models.Specialty, error)
}

type jobPostingReader interface {
	FindByID(ctx context.Context, id string) (*models.JobPosting, error)
	List(ctx context.Context, openOnly bool) ([]models.JobPosting, error)
}

// IdentityForm is the base identity bundle shared by both registration
// flows. The requested role is implied by the endpoint.
type IdentityForm struct {
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Username  string `json:"username" validate:"required,min=3,max=150"`
	Email     string `json:"email" validate:"omitempty,email"`
}

// StudentApplicationForm is the student-specific application bundle.
type StudentApplicationForm struct {
	EGN            string  `json:"egn" validate:"required"`
	DateOfBirth    string  `json:"date_of_birth" validate:"required"`
	Phone          string  `json:"phone" validate:"required,max=30"`
	Address        string  `json:"address" validate:"required"`
	HighSchool     string  `json:"high_school" validate:"required"`
	GPA            float64 `json:"gpa" validate:"required,gte=2,lte=6"`
	Certificates   string  `json:"certificates"`
	FirstChoiceID  string  `json:"first_choice_id" validate:"required"`
	SecondChoiceID string  `json:"second_choice_id"`
	ThirdChoiceID  string  `json:"third_choice_id"`
	Motivation     string  `json:"motivation"`
	ExtraInfo      string  `json:"extra_info"`
	Consent        bool    `json:"consent"`
}

// LecturerApplicationForm is the lecturer-specific application bundle.
type LecturerApplicationForm struct {
	Title                string `json:"title" validate:"required,max=100"`
	Department           string `json:"department" validate:"required"`
	EducationPath        string `json:"education_path" validate:"required"`
	Certifications       string `json:"certifications"`
	Memberships          string `json:"memberships"`
	TeachingExperience   string `json:"teaching_experience"`
	CoursesTaught        string `json:"courses_taught"`
	ResearchPublications string `json:"research_publications"`
	JobPostingID         string `json:"job_posting_id" validate:"required"`
	MotivationGoals      string `json:"motivation_goals"`
	DocumentNotes        string `json:"document_notes"`
	StatementOfTruth     bool   `json:"statement_of_truth"`
}

// StudentRegistrationRequest combines the two bundles of a student
// submission.
type StudentRegistrationRequest struct {
	Identity    IdentityForm           `json:"identity"`
	Application StudentApplicationForm `json:"application"`
	IP          string                 `json:"-"`
	UserAgent   string                 `json:"-"`
}

// LecturerRegistrationRequest combines the two bundles of a lecturer
// submission.
type LecturerRegistrationRequest struct {
	Identity    IdentityForm            `json:"identity"`
	Application LecturerApplicationForm `json:"application"`
	IP          string                  `json:"-"`
	UserAgent   string                  `json:"-"`
}

// RegistrationResult reports the created, still-unapproved identity.
type RegistrationResult struct {
	UserID        string `json:"user_id"`
	Username      string `json:"username"`
	ApplicationID string `json:"application_id"`
	Status        string `json:"status"`
}

// RegistrationOptions are the live choice enumerations rendered on the
// submission forms: active specialties and open job postings only.
type RegistrationOptions struct {
	Specialties []models.Specialty  `json:"specialties"`
	JobPostings []models.JobPosting `json:"job_postings"`
}

// RegistrationService accepts combined identity+application
// submissions. Validation runs identity-first, then the application
// bundle; on any failure nothing is persisted and the collected
// field-level messages are returned in one validation error.
type RegistrationService struct {
	repo        registrationRepository
	users       registrationUserReader
	specialties specialtyReader
	jobPostings jobPostingReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewRegistrationService constructs the service.
func NewRegistrationService(repo registrationRepository, users registrationUserReader, specialties specialtyReader, jobPostings jobPostingReader, validate *validator.Validate, logger *zap.Logger) *RegistrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &RegistrationService{repo: repo, users: users, specialties: specialties, jobPostings: jobPostings, validator: validate, logger: logger}
}

// Options returns the live form choice enumerations.
func (s *RegistrationService) Options(ctx context.Context) (*RegistrationOptions, error) {
	specialties, err := s.specialties.List(ctx, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list specialties")
	}
	postings, err := s.jobPostings.List(ctx, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list job postings")
	}
	return &RegistrationOptions{Specialties: specialties, JobPostings: postings}, nil
}

// RegisterStudent validates and persists a student submission.
func (s *RegistrationService) RegisterStudent(ctx context.Context, req StudentRegistrationRequest) (*RegistrationResult, error) {
	fields := map[string]string{}
	s.validateIdentity(ctx, req.Identity, fields)

	collectValidatorErrors(s.validator.Struct(req.Application), fields)
	if !isAllDigits(req.Application.EGN) || len(req.Application.EGN) != 10 {
		fields["egn"] = "EGN must be exactly 10 digits"
	}
	dob, err := time.Parse("2006-01-02", req.Application.DateOfBirth)
	if err != nil && fields["date_of_birth"] == "" {
		fields["date_of_birth"] = "date of birth must be in YYYY-MM-DD format"
	}
	if !req.Application.Consent {
		fields["consent"] = "consent is required"
	}

	choices := distinctChoices(req.Application.FirstChoiceID, req.Application.SecondChoiceID, req.Application.ThirdChoiceID, fields)
	for _, choiceID := range choices {
		specialty, err := s.specialties.FindByID(ctx, choiceID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				fields["specialties"] = "selected specialty does not exist"
				continue
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check specialty")
		}
		if !specialty.IsActive {
			fields["specialties"] = fmt.Sprintf("specialty %q is not open for applications", specialty.Name)
		}
	}

	if len(fields) > 0 {
		return nil, appErrors.Validation("registration failed", fields)
	}

	user := newUnapprovedUser(req.Identity, models.RoleStudent)
	app := &models.StudentApplication{
		EGN:            req.Application.EGN,
		DateOfBirth:    dob,
		Phone:          req.Application.Phone,
		Address:        req.Application.Address,
		HighSchool:     req.Application.HighSchool,
		GPA:            req.Application.GPA,
		Certificates:   req.Application.Certificates,
		FirstChoiceID:  optionalID(req.Application.FirstChoiceID),
		SecondChoiceID: optionalID(req.Application.SecondChoiceID),
		ThirdChoiceID:  optionalID(req.Application.ThirdChoiceID),
		Motivation:     req.Application.Motivation,
		ExtraInfo:      req.Application.ExtraInfo,
		Consent:        req.Application.Consent,
		Status:         models.StudentStatusSubmitted,
	}

	if err := s.repo.CreateStudentRegistration(ctx, user, app); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist registration")
	}

	s.audit(ctx, user, "student_applications", app.ID, req.IP, req.UserAgent)

	return &RegistrationResult{
		UserID:        user.ID,
		Username:      user.Username,
		ApplicationID: app.ID,
		Status:        string(app.Status),
	}, nil
}

// RegisterLecturer validates and persists a lecturer submission. The
// service email is derived from the names when absent so approved
// lecturers can authenticate with it later.
func (s *RegistrationService) RegisterLecturer(ctx context.Context, req LecturerRegistrationRequest) (*RegistrationResult, error) {
	fields := map[string]string{}
	s.validateIdentity(ctx, req.Identity, fields)

	collectValidatorErrors(s.validator.Struct(req.Application), fields)
	if !req.Application.StatementOfTruth {
		fields["statement_of_truth"] = "the statement of truth must be accepted"
	}

	if req.Application.JobPostingID != "" {
		posting, err := s.jobPostings.FindByID(ctx, req.Application.JobPostingID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				fields["job_posting_id"] = "selected job posting does not exist"
			} else {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check job posting")
			}
		} else if !posting.IsOpen {
			fields["job_posting_id"] = fmt.Sprintf("job posting %q is closed", posting.Title)
		}
	}

	if len(fields) > 0 {
		return nil, appErrors.Validation("registration failed", fields)
	}

	user := newUnapprovedUser(req.Identity, models.RoleLecturer)
	serviceEmail := deriveServiceEmail(req.Identity.FirstName, req.Identity.LastName)
	user.ServiceEmail = &serviceEmail

	app := &models.LecturerApplication{
		Title:                req.Application.Title,
		Department:           req.Application.Department,
		EducationPath:        req.Application.EducationPath,
		Certifications:       req.Application.Certifications,
		Memberships:          req.Application.Memberships,
		TeachingExperience:   req.Application.TeachingExperience,
		CoursesTaught:        req.Application.CoursesTaught,
		ResearchPublications: req.Application.ResearchPublications,
		JobPostingID:         req.Application.JobPostingID,
		MotivationGoals:      req.Application.MotivationGoals,
		DocumentNotes:        req.Application.DocumentNotes,
		StatementOfTruth:     req.Application.StatementOfTruth,
		Status:               models.LecturerStatusSubmitted,
	}

	if err := s.repo.CreateLecturerRegistration(ctx, user, app); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist registration")
	}

	s.audit(ctx, user, "lecturer_applications", app.ID, req.IP, req.UserAgent)

	return &RegistrationResult{
		UserID:        user.ID,
		Username:      user.Username,
		ApplicationID: app.ID,
		Status:        string(app.Status),
	}, nil
}

// validateIdentity checks the base identity bundle before the
// application bundle is considered.
func (s *RegistrationService) validateIdentity(ctx context.Context, form IdentityForm, fields map[string]string) {
	collectValidatorErrors(s.validator.Struct(form), fields)

	if form.Username == "" {
		return
	}
	if _, err := s.users.FindByUsername(ctx, form.Username); err == nil {
		fields["username"] = "username is already taken"
	} else if !errors.Is(err, sql.ErrNoRows) {
		s.logger.Warn("failed to precheck username uniqueness", zap.Error(err))
	}
}

func (s *RegistrationService) audit(ctx context.Context, user *models.User, resource, appID, ip, userAgent string) {
	payload, _ := json.Marshal(map[string]interface{}{"username": user.Username, "role": user.Role})
	if err := s.users.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &user.ID,
		Action:     models.AuditActionRegister,
		Resource:   resource,
		ResourceID: &appID,
		NewValues:  payload,
		IPAddress:  ip,
		UserAgent:  userAgent,
	}); err != nil {
		s.logger.Warn("failed to record registration audit log", zap.Error(err))
	}
}

// newUnapprovedUser builds the identity half of a submission. The
// password placeholder starts with "!" and is never a valid bcrypt
// hash, so the account cannot authenticate until approval issues real
// credentials.
func newUnapprovedUser(form IdentityForm, role models.Role) *models.User {
	return &models.User{
		Username:     form.Username,
		PasswordHash: unusablePassword(),
		Role:         role,
		IsApproved:   false,
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		Email:        form.Email,
	}
}

func unusablePassword() string {
	buf := make([]byte, 24)
	_, _ = rand.Read(buf)
	return "!" + base64.RawStdEncoding.EncodeToString(buf)
}

func deriveServiceEmail(firstName, lastName string) string {
	first := strings.ReplaceAll(strings.ToLower(firstName), " ", "")
	last := strings.ReplaceAll(strings.ToLower(lastName), " ", "")
	return fmt.Sprintf("%s.%s@%s", first, last, serviceEmailDomain)
}

// distinctChoices enforces the pairwise-distinct rule over the ranked
// specialty choices and returns the non-empty ones.
func distinctChoices(first, second, third string, fields map[string]string) []string {
	var choices []string
	seen := map[string]bool{}
	for _, id := range []string{first, second, third} {
		if id == "" {
			continue
		}
		if seen[id] {
			fields["specialties"] = "specialty choices must be distinct"
			continue
		}
		seen[id] = true
		choices = append(choices, id)
	}
	return choices
}

func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// collectValidatorErrors folds struct tag violations into the shared
// field map without overwriting earlier, more specific messages.
func collectValidatorErrors(err error, fields map[string]string) {
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["_form"] = "invalid submission"
		return
	}
	for _, fe := range verrs {
		name := snakeCase(fe.Field())
		if _, exists := fields[name]; exists {
			continue
		}
		switch fe.Tag() {
		case "required":
			fields[name] = "this field is required"
		case "email":
			fields[name] = "must be a valid email address"
		case "min":
			fields[name] = fmt.Sprintf("must be at least %s characters", fe.Param())
		case "max":
			fields[name] = fmt.Sprintf("must be at most %s characters", fe.Param())
		case "gte":
			fields[name] = fmt.Sprintf("must be at least %s", fe.Param())
		case "lte":
			fields[name] = fmt.Sprintf("must be at most %s", fe.Param())
		default:
			fields[name] = "invalid value"
		}
	}
}

func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	// Initialisms such as EGN and GPA collapse to one word.
	return strings.NewReplacer("e_g_n", "egn", "g_p_a", "gpa", "i_d", "id").Replace(b.String())
}
