package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/unilink-bg/unilink-api/internal/models"
)

const studentApplicationColumns = `id, user_id, egn, date_of_birth, phone, address, high_school, gpa, certificates, first_choice_id, second_choice_id, third_choice_id, motivation, extra_info, consent, status, created_at, updated_at`

const lecturerApplicationColumns = `id, user_id, title, department, education_path, certifications, memberships, teaching_experience, courses_taught, research_publications, job_posting_id, motivation_goals, document_notes, statement_of_truth, status, created_at, updated_at`

// ApplicationRepository reads and mutates submitted applications on
// behalf of the administrator review flows.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository constructs the repository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// ListStudent returns student applications with total count.
func (r *ApplicationRepository) ListStudent(ctx context.Context, filter models.ApplicationFilter) ([]models.StudentApplication, int, error) {
	baseQuery := `FROM student_applications WHERE 1=1`
	var args []interface{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		baseQuery += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		baseQuery += fmt.Sprintf(" AND (egn LIKE $%d OR LOWER(high_school) LIKE $%d)", len(args), len(args))
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", studentApplicationColumns, baseQuery, pageSize, (page-1)*pageSize)

	var apps []models.StudentApplication
	if err := r.db.SelectContext(ctx, &apps, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list student applications: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", baseQuery), args...); err != nil {
		return nil, 0, fmt.Errorf("count student applications: %w", err)
	}
	return apps, total, nil
}

// ListLecturer returns lecturer applications with total count.
func (r *ApplicationRepository) ListLecturer(ctx context.Context, filter models.ApplicationFilter) ([]models.LecturerApplication, int, error) {
	baseQuery := `FROM lecturer_applications WHERE 1=1`
	var args []interface{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		baseQuery += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		baseQuery += fmt.Sprintf(" AND (LOWER(department) LIKE $%d OR LOWER(title) LIKE $%d)", len(args), len(args))
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", lecturerApplicationColumns, baseQuery, pageSize, (page-1)*pageSize)

	var apps []models.LecturerApplication
	if err := r.db.SelectContext(ctx, &apps, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list lecturer applications: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", baseQuery), args...); err != nil {
		return nil, 0, fmt.Errorf("count lecturer applications: %w", err)
	}
	return apps, total, nil
}

// FindStudentByID returns a student application by identifier.
func (r *ApplicationRepository) FindStudentByID(ctx context.Context, id string) (*models.StudentApplication, error) {
	query := fmt.Sprintf(`SELECT %s FROM student_applications WHERE id = $1 LIMIT 1`, studentApplicationColumns)
	var app models.StudentApplication
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student application: %w", err)
	}
	return &app, nil
}

// FindLecturerByID returns a lecturer application by identifier.
func (r *ApplicationRepository) FindLecturerByID(ctx context.Context, id string) (*models.LecturerApplication, error) {
	query := fmt.Sprintf(`SELECT %s FROM lecturer_applications WHERE id = $1 LIMIT 1`, lecturerApplicationColumns)
	var app models.LecturerApplication
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find lecturer application: %w", err)
	}
	return &app, nil
}

// UpdateStudentStatus persists a review status change.
func (r *ApplicationRepository) UpdateStudentStatus(ctx context.Context, id string, status models.StudentApplicationStatus) error {
	const query = `UPDATE student_applications SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update student application status: %w", err)
	}
	return nil
}

// UpdateLecturerStatus persists a review status change.
func (r *ApplicationRepository) UpdateLecturerStatus(ctx context.Context, id string, status models.LecturerApplicationStatus) error {
	const query = `UPDATE lecturer_applications SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update lecturer application status: %w", err)
	}
	return nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
