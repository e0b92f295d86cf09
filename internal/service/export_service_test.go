package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unilink-bg/unilink-api/internal/models"
	appErrors "github.com/unilink-bg/unilink-api/pkg/errors"
)

func exportFixture(enabled bool) (*ExportService, *mockAuditWriter) {
	repo := &mockApplicationRepo{
		students: map[string]*models.StudentApplication{
			"st-1": {ID: "st-1", EGN: "0145123456", HighSchool: "91 NEG", GPA: 5.5, Status: models.StudentStatusSubmitted, DateOfBirth: time.Date(2001, 4, 15, 0, 0, 0, 0, time.UTC)},
		},
		lecturers: map[string]*models.LecturerApplication{
			"lc-1": {ID: "lc-1", Title: "Dr", Department: "CS", JobPostingID: "jp-1", Status: models.LecturerStatusInReview},
		},
	}
	audits := &mockAuditWriter{}
	return NewExportService(repo, audits, zap.NewNop(), ExportConfig{Enabled: enabled, MaxRows: 100}), audits
}

func TestStudentRosterCSV(t *testing.T) {
	svc, audits := exportFixture(true)

	file, err := svc.StudentRoster(context.Background(), "csv", models.ApplicationFilter{}, "admin")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))

	body := string(file.Content)
	assert.Contains(t, body, "EGN")
	assert.Contains(t, body, "0145123456")
	assert.Contains(t, body, "2001-04-15")
	assert.Len(t, audits.logs, 1)
	assert.Equal(t, models.AuditActionExport, audits.logs[0].Action)
}

func TestLecturerRosterPDF(t *testing.T) {
	svc, _ := exportFixture(true)

	file, err := svc.LecturerRoster(context.Background(), "pdf", models.ApplicationFilter{}, "admin")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Filename, ".pdf"))
	assert.True(t, strings.HasPrefix(string(file.Content), "%PDF"))
}

func TestExportDisabled(t *testing.T) {
	svc, _ := exportFixture(false)

	_, err := svc.StudentRoster(context.Background(), "csv", models.ApplicationFilter{}, "admin")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestExportUnsupportedFormat(t *testing.T) {
	svc, _ := exportFixture(true)

	_, err := svc.StudentRoster(context.Background(), "xlsx", models.ApplicationFilter{}, "admin")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
