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

// SpecialtyRepository manages the specialty reference data.
type SpecialtyRepository struct {
	db *sqlx.DB
}

// NewSpecialtyRepository constructs the repository.
func NewSpecialtyRepository(db *sqlx.DB) *SpecialtyRepository {
	return &SpecialtyRepository{db: db}
}

// List returns specialties, optionally restricted to active ones. The
// registration form reads this live at render time.
func (r *SpecialtyRepository) List(ctx context.Context, activeOnly bool) ([]models.Specialty, error) {
	query := `SELECT id, name, description, is_active, created_at, updated_at FROM specialties`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name ASC`

	var specialties []models.Specialty
	if err := r.db.SelectContext(ctx, &specialties, query); err != nil {
		return nil, fmt.Errorf("list specialties: %w", err)
	}
	return specialties, nil
}

// FindByID returns a specialty by identifier.
func (r *SpecialtyRepository) FindByID(ctx context.Context, id string) (*models.Specialty, error) {
	const query = `SELECT id, name, description, is_active, created_at, updated_at FROM specialties WHERE id = $1 LIMIT 1`
	var specialty models.Specialty
	if err := r.db.GetContext(ctx, &specialty, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find specialty by id: %w", err)
	}
	return &specialty, nil
}

// Create inserts a new specialty.
func (r *SpecialtyRepository) Create(ctx context.Context, specialty *models.Specialty) error {
	if specialty.ID == "" {
		specialty.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if specialty.CreatedAt.IsZero() {
		specialty.CreatedAt = now
	}
	specialty.UpdatedAt = now

	const query = `INSERT INTO specialties (id, name, description, is_active, created_at, updated_at) VALUES (:id, :name, :description, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, specialty); err != nil {
		return translateUniqueViolation(err, fmt.Errorf("create specialty: %w", err))
	}
	return nil
}

// Update persists mutable specialty attributes.
func (r *SpecialtyRepository) Update(ctx context.Context, specialty *models.Specialty) error {
	specialty.UpdatedAt = time.Now().UTC()
	const query = `UPDATE specialties SET name = :name, description = :description, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, specialty); err != nil {
		return translateUniqueViolation(err, fmt.Errorf("update specialty: %w", err))
	}
	return nil
}

// Delete removes a specialty. Applications referencing it keep their
// rows; the choice columns are nulled by the store's FK rule.
func (r *SpecialtyRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM specialties WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete specialty: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
