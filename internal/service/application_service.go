package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/unilink-bg/unilink-api/internal/models"
	appErrors "github.com/unilink-bg/unilink-api/pkg/errors"
)

type applicationRepository interface {
	ListStudent(ctx context.Context, filter models.ApplicationFilter) ([]models.StudentApplication, int, error)
	ListLecturer(ctx context.Context, filter models.ApplicationFilter) ([]models.LecturerApplication, int, error)
	FindStudentByID(ctx context.Context, id string) (*models.StudentApplication, error)
	FindLecturerByID(ctx context.Context, id string) (*models.LecturerApplication, error)
	UpdateStudentStatus(ctx context.Context, id string, status models.StudentApplicationStatus) error
	UpdateLecturerStatus(ctx context.Context, id string, status models.LecturerApplicationStatus) error
}

// StudentApplicationList pairs a page of student applications with
// pagination metadata.
type StudentApplicationList struct {
	Applications []models.StudentApplication `json:"applications"`
	Pagination   models.Pagination           `json:"pagination"`
}

// LecturerApplicationList pairs a page of lecturer applications with
// pagination metadata.
type LecturerApplicationList struct {
	Applications []models.LecturerApplication `json:"applications"`
	Pagination   models.Pagination            `json:"pagination"`
}

// StatusChangeRequest is the admin payload for moving an application
// through its review pipeline.
type StatusChangeRequest struct {
	Status string `json:"status"`
}

// ApplicationService exposes the admin review operations over
// submitted applications. Review status never feeds back into
// authentication; only the approval workflow does that.
type ApplicationService struct {
	repo   applicationRepository
	audits auditWriter
	logger *zap.Logger
}

// NewApplicationService constructs the service.
func NewApplicationService(repo applicationRepository, audits auditWriter, logger *zap.Logger) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{repo: repo, audits: audits, logger: logger}
}

// ListStudent returns student applications matching the filter.
func (s *ApplicationService) ListStudent(ctx context.Context, filter models.ApplicationFilter) (*StudentApplicationList, error) {
	if filter.Status != "" && !models.StudentApplicationStatus(filter.Status).Valid() {
		return nil, appErrors.Validation("unknown status filter", map[string]string{"status": "not a recognised student application status"})
	}

	apps, total, err := s.repo.ListStudent(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student applications")
	}
	return &StudentApplicationList{
		Applications: apps,
		Pagination:   paginationFor(filter, total),
	}, nil
}

// ListLecturer returns lecturer applications matching the filter.
func (s *ApplicationService) ListLecturer(ctx context.Context, filter models.ApplicationFilter) (*LecturerApplicationList, error) {
	if filter.Status != "" && !models.LecturerApplicationStatus(filter.Status).Valid() {
		return nil, appErrors.Validation("unknown status filter", map[string]string{"status": "not a recognised lecturer application status"})
	}

	apps, total, err := s.repo.ListLecturer(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lecturer applications")
	}
	return &LecturerApplicationList{
		Applications: apps,
		Pagination:   paginationFor(filter, total),
	}, nil
}

// GetStudent returns a student application by ID.
func (s *ApplicationService) GetStudent(ctx context.Context, id string) (*models.StudentApplication, error) {
	app, err := s.repo.FindStudentByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student application")
	}
	return app, nil
}

// GetLecturer returns a lecturer application by ID.
func (s *ApplicationService) GetLecturer(ctx context.Context, id string) (*models.LecturerApplication, error) {
	app, err := s.repo.FindLecturerByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lecturer application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecturer application")
	}
	return app, nil
}

// ChangeStudentStatus moves a student application to the requested
// review status, rejecting transitions the pipeline does not allow.
func (s *ApplicationService) ChangeStudentStatus(ctx context.Context, id string, req StatusChangeRequest, actorID string) (*models.StudentApplication, error) {
	next := models.StudentApplicationStatus(req.Status)
	if !next.Valid() {
		return nil, appErrors.Validation("unknown status", map[string]string{"status": "not a recognised student application status"})
	}

	app, err := s.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	if !app.Status.CanTransitionTo(next) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("cannot move student application from %s to %s", app.Status, next))
	}

	if err := s.repo.UpdateStudentStatus(ctx, id, next); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student application status")
	}

	s.auditStatusChange(ctx, actorID, "student_applications", id, string(app.Status), string(next))
	app.Status = next
	return app, nil
}

// ChangeLecturerStatus moves a lecturer application to the requested
// review status, rejecting transitions the pipeline does not allow.
func (s *ApplicationService) ChangeLecturerStatus(ctx context.Context, id string, req StatusChangeRequest, actorID string) (*models.LecturerApplication, error) {
	next := models.LecturerApplicationStatus(req.Status)
	if !next.Valid() {
		return nil, appErrors.Validation("unknown status", map[string]string{"status": "not a recognised lecturer application status"})
	}

	app, err := s.GetLecturer(ctx, id)
	if err != nil {
		return nil, err
	}

	if !app.Status.CanTransitionTo(next) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("cannot move lecturer application from %s to %s", app.Status, next))
	}

	if err := s.repo.UpdateLecturerStatus(ctx, id, next); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update lecturer application status")
	}

	s.auditStatusChange(ctx, actorID, "lecturer_applications", id, string(app.Status), string(next))
	app.Status = next
	return app, nil
}

func (s *ApplicationService) auditStatusChange(ctx context.Context, actorID, resource, resourceID, from, to string) {
	oldPayload, _ := json.Marshal(map[string]string{"status": from})
	newPayload, _ := json.Marshal(map[string]string{"status": to})
	if err := s.audits.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actorID,
		Action:     models.AuditActionStatusChange,
		Resource:   resource,
		ResourceID: &resourceID,
		OldValues:  oldPayload,
		NewValues:  newPayload,
	}); err != nil {
		s.logger.Warn("failed to record status change audit log", zap.Error(err))
	}
}

func paginationFor(filter models.ApplicationFilter, total int) models.Pagination {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}
}
