package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/unilink-bg/unilink-api/internal/models"
)

// RegistrationRepository persists a registration submission: the
// unapproved identity and its role application are written in one
// transaction so that both exist or neither does.
type RegistrationRepository struct {
	db *sqlx.DB
}

// NewRegistrationRepository constructs the repository.
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

const insertUserQuery = `INSERT INTO users (id, username, password_hash, role, is_approved, faculty_number, service_email, first_name, last_name, email, created_at, updated_at)
VALUES (:id, :username, :password_hash, :role, :is_approved, :faculty_number, :service_email, :first_name, :last_name, :email, :created_at, :updated_at)`

const insertStudentApplicationQuery = `INSERT INTO student_applications (id, user_id, egn, date_of_birth, phone, address, high_school, gpa, certificates, first_choice_id, second_choice_id, third_choice_id, motivation, extra_info, consent, status, created_at, updated_at)
VALUES (:id, :user_id, :egn, :date_of_birth, :phone, :address, :high_school, :gpa, :certificates, :first_choice_id, :second_choice_id, :third_choice_id, :motivation, :extra_info, :consent, :status, :created_at, :updated_at)`

const insertLecturerApplicationQuery = `INSERT INTO lecturer_applications (id, user_id, title, department, education_path, certifications, memberships, teaching_experience, courses_taught, research_publications, job_posting_id, motivation_goals, document_notes, statement_of_truth, status, created_at, updated_at)
VALUES (:id, :user_id, :title, :department, :education_path, :certifications, :memberships, :teaching_experience, :courses_taught, :research_publications, :job_posting_id, :motivation_goals, :document_notes, :statement_of_truth, :status, :created_at, :updated_at)`

// CreateStudentRegistration inserts the identity and its student
// application atomically.
func (r *RegistrationRepository) CreateStudentRegistration(ctx context.Context, user *models.User, app *models.StudentApplication) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin student registration tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stampRegistration(user)
	if _, err = tx.NamedExecContext(ctx, insertUserQuery, user); err != nil {
		return translateUniqueViolation(err, fmt.Errorf("insert identity: %w", err))
	}

	stampStudentApplication(app, user.ID)
	if _, err = tx.NamedExecContext(ctx, insertStudentApplicationQuery, app); err != nil {
		return translateUniqueViolation(err, fmt.Errorf("insert student application: %w", err))
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit student registration tx: %w", err)
	}
	return nil
}

// CreateLecturerRegistration inserts the identity and its lecturer
// application atomically.
func (r *RegistrationRepository) CreateLecturerRegistration(ctx context.Context, user *models.User, app *models.LecturerApplication) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin lecturer registration tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stampRegistration(user)
	if _, err = tx.NamedExecContext(ctx, insertUserQuery, user); err != nil {
		return translateUniqueViolation(err, fmt.Errorf("insert identity: %w", err))
	}

	app.ID = orNewID(app.ID)
	app.UserID = user.ID
	now := time.Now().UTC()
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = models.LecturerStatusSubmitted
	}
	if _, err = tx.NamedExecContext(ctx, insertLecturerApplicationQuery, app); err != nil {
		return translateUniqueViolation(err, fmt.Errorf("insert lecturer application: %w", err))
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit lecturer registration tx: %w", err)
	}
	return nil
}

func stampRegistration(user *models.User) {
	user.ID = orNewID(user.ID)
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
}

func stampStudentApplication(app *models.StudentApplication, userID string) {
	app.ID = orNewID(app.ID)
	app.UserID = userID
	now := time.Now().UTC()
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = models.StudentStatusSubmitted
	}
}

func orNewID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}
