package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/unilink-bg/unilink-api/internal/models"
	appErrors "github.com/unilink-bg/unilink-api/pkg/errors"
	"github.com/unilink-bg/unilink-api/pkg/export"
)

// Export formats accepted by the roster endpoints.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// exportPageSize matches the repository's largest accepted page size;
// rosters are collected page by page up to the configured row cap.
const exportPageSize = 100

type exportApplicationReader interface {
	ListStudent(ctx context.Context, filter models.ApplicationFilter) ([]models.StudentApplication, int, error)
	ListLecturer(ctx context.Context, filter models.ApplicationFilter) ([]models.LecturerApplication, int, error)
}

// ExportConfig tunes the roster export endpoints.
type ExportConfig struct {
	Enabled bool
	MaxRows int
}

// ExportFile is a rendered roster ready to stream to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportService renders admin application rosters as CSV or PDF.
type ExportService struct {
	apps   exportApplicationReader
	audits auditWriter
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
	config ExportConfig
}

// NewExportService constructs the service.
func NewExportService(apps exportApplicationReader, audits auditWriter, logger *zap.Logger, config ExportConfig) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxRows <= 0 {
		config.MaxRows = 1000
	}
	return &ExportService{
		apps:   apps,
		audits: audits,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
		config: config,
	}
}

// StudentRoster exports the student application roster.
func (s *ExportService) StudentRoster(ctx context.Context, format string, filter models.ApplicationFilter, actorID string) (*ExportFile, error) {
	if err := s.checkFormat(format); err != nil {
		return nil, err
	}
	apps, err := s.collectStudents(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student roster")
	}

	data := export.Dataset{
		Headers: []string{"ID", "EGN", "Date of Birth", "High School", "GPA", "Status", "Submitted"},
	}
	for _, app := range apps {
		data.Rows = append(data.Rows, map[string]string{
			"ID":            app.ID,
			"EGN":           app.EGN,
			"Date of Birth": app.DateOfBirth.Format("2006-01-02"),
			"High School":   app.HighSchool,
			"GPA":           strconv.FormatFloat(app.GPA, 'f', 2, 64),
			"Status":        string(app.Status),
			"Submitted":     app.CreatedAt.Format("2006-01-02"),
		})
	}

	file, err := s.render(format, "student-applications", "Student Applications", data)
	if err != nil {
		return nil, err
	}
	s.auditExport(ctx, actorID, "student_applications", format, len(apps))
	return file, nil
}

// LecturerRoster exports the lecturer application roster.
func (s *ExportService) LecturerRoster(ctx context.Context, format string, filter models.ApplicationFilter, actorID string) (*ExportFile, error) {
	if err := s.checkFormat(format); err != nil {
		return nil, err
	}
	apps, err := s.collectLecturers(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecturer roster")
	}

	data := export.Dataset{
		Headers: []string{"ID", "Title", "Department", "Job Posting", "Status", "Submitted"},
	}
	for _, app := range apps {
		data.Rows = append(data.Rows, map[string]string{
			"ID":          app.ID,
			"Title":       app.Title,
			"Department":  app.Department,
			"Job Posting": app.JobPostingID,
			"Status":      string(app.Status),
			"Submitted":   app.CreatedAt.Format("2006-01-02"),
		})
	}

	file, err := s.render(format, "lecturer-applications", "Lecturer Applications", data)
	if err != nil {
		return nil, err
	}
	s.auditExport(ctx, actorID, "lecturer_applications", format, len(apps))
	return file, nil
}

func (s *ExportService) collectStudents(ctx context.Context, filter models.ApplicationFilter) ([]models.StudentApplication, error) {
	filter.PageSize = exportPageSize
	var all []models.StudentApplication
	for page := 1; len(all) < s.config.MaxRows; page++ {
		filter.Page = page
		apps, _, err := s.apps.ListStudent(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, apps...)
		if len(apps) < exportPageSize {
			break
		}
	}
	if len(all) > s.config.MaxRows {
		all = all[:s.config.MaxRows]
	}
	return all, nil
}

func (s *ExportService) collectLecturers(ctx context.Context, filter models.ApplicationFilter) ([]models.LecturerApplication, error) {
	filter.PageSize = exportPageSize
	var all []models.LecturerApplication
	for page := 1; len(all) < s.config.MaxRows; page++ {
		filter.Page = page
		apps, _, err := s.apps.ListLecturer(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, apps...)
		if len(apps) < exportPageSize {
			break
		}
	}
	if len(all) > s.config.MaxRows {
		all = all[:s.config.MaxRows]
	}
	return all, nil
}

func (s *ExportService) checkFormat(format string) error {
	if !s.config.Enabled {
		return appErrors.Clone(appErrors.ErrForbidden, "exports are disabled")
	}
	switch strings.ToLower(format) {
	case ExportFormatCSV, ExportFormatPDF:
		return nil
	}
	return appErrors.Validation("unsupported export format", map[string]string{"format": "must be csv or pdf"})
}

func (s *ExportService) render(format, name, title string, data export.Dataset) (*ExportFile, error) {
	stamp := time.Now().UTC().Format("20060102-150405")
	switch strings.ToLower(format) {
	case ExportFormatPDF:
		content, err := s.pdf.Render(data, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("%s-%s.pdf", name, stamp),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	default:
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("%s-%s.csv", name, stamp),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	}
}

func (s *ExportService) auditExport(ctx context.Context, actorID, resource, format string, rows int) {
	payload := []byte(fmt.Sprintf(`{"format":%q,"rows":%d}`, format, rows))
	if err := s.audits.CreateAuditLog(ctx, &models.AuditLog{
		UserID:    &actorID,
		Action:    models.AuditActionExport,
		Resource:  resource,
		NewValues: payload,
	}); err != nil {
		s.logger.Warn("failed to record export audit log", zap.Error(err))
	}
}
