package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/unilink-bg/unilink-api/internal/models"
)

// JobPostingRepository manages the job posting reference data.
type JobPostingRepository struct {
	db *sqlx.DB
}

// NewJobPostingRepository constructs the repository.
func NewJobPostingRepository(db *sqlx.DB) *JobPostingRepository {
	return &JobPostingRepository{db: db}
}

// List returns postings, optionally restricted to open ones.
func (r *JobPostingRepository) List(ctx context.Context, openOnly bool) ([]models.JobPosting, error) {
	query := `SELECT id, title, description, is_open, created_at, updated_at FROM job_postings`
	if openOnly {
		query += ` WHERE is_open = TRUE`
	}
	query += ` ORDER BY title ASC`

	var postings []models.JobPosting
	if err := r.db.SelectContext(ctx, &postings, query); err != nil {
		return nil, fmt.Errorf("list job postings: %w", err)
	}
	return postings, nil
}

// FindByID returns a posting by identifier.
func (r *JobPostingRepository) FindByID(ctx context.Context, id string) (*models.JobPosting, error) {
	const query = `SELECT id, title, description, is_open, created_at, updated_at FROM job_postings WHERE id = $1 LIMIT 1`
	var posting models.JobPosting
	if err := r.db.GetContext(ctx, &posting, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find job posting by id: %w", err)
	}
	return &posting, nil
}

// Create inserts a new posting.
func (r *JobPostingRepository) Create(ctx context.Context, posting *models.JobPosting) error {
	if posting.ID == "" {
		posting.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if posting.CreatedAt.IsZero() {
		posting.CreatedAt = now
	}
	posting.UpdatedAt = now

	const query = `INSERT INTO job_postings (id, title, description, is_open, created_at, updated_at) VALUES (:id, :title, :description, :is_open, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, posting); err != nil {
		return fmt.Errorf("create job posting: %w", err)
	}
	return nil
}

// Update persists mutable posting attributes.
func (r *JobPostingRepository) Update(ctx context.Context, posting *models.JobPosting) error {
	posting.UpdatedAt = time.Now().UTC()
	const query = `UPDATE job_postings SET title = :title, description = :description, is_open = :is_open, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, posting); err != nil {
		return fmt.Errorf("update job posting: %w", err)
	}
	return nil
}

// Delete removes a posting. Lecturer applications referencing it are
// removed by the store's cascade rule.
func (r *JobPostingRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM job_postings WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete job posting: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
